package speech

import "fmt"

// RequestError ошибка построения запроса: недопустимая комбинация
// параметров, выявленная до любого сетевого вызова
type RequestError struct {
	Reason string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("некорректный запрос синтеза: %s", e.Reason)
}

// PreconditionError отсутствует обязательная конфигурация для выбранного пути
type PreconditionError struct {
	Missing string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("отсутствует обязательная настройка: %s", e.Missing)
}

// BackendError ответ бэкенда со статусом вне 2xx.
// Контроллер восстановления проверяет класс статуса, а не текст сообщения.
type BackendError struct {
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("ошибка SpeechKit API (статус %d): %s", e.StatusCode, e.Body)
}

// IsClientError сообщает, относится ли статус к классу 4xx
func (e *BackendError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// DecodeError ответ бэкенда получен, но аудио из него извлечь не удалось
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("ошибка декодирования ответа SpeechKit: %s", e.Reason)
}

package speech

import (
	"net/url"
	"strconv"
)

// hint одиночная подсказка для v3 API.
// Каждая подсказка обязана быть отдельным объектом с единственным полем:
// объединение полей в один объект API отклоняет.
type hint map[string]string

// containerAudio описывает контейнерный формат аудио
type containerAudio struct {
	ContainerAudioType string `json:"containerAudioType"`
}

// rawAudio описывает сырой PCM-формат
type rawAudio struct {
	AudioEncoding   string `json:"audioEncoding"`
	SampleRateHertz int    `json:"sampleRateHertz"`
}

// outputAudioSpec спецификация выходного аудио для v3 API
type outputAudioSpec struct {
	ContainerAudio *containerAudio `json:"containerAudio,omitempty"`
	RawAudio       *rawAudio       `json:"rawAudio,omitempty"`
}

// markupPayload тело запроса к v3 API (utteranceSynthesis)
type markupPayload struct {
	Text            string           `json:"text"`
	Lang            string           `json:"lang"`
	Hints           []hint           `json:"hints,omitempty"`
	OutputAudioSpec *outputAudioSpec `json:"outputAudioSpec,omitempty"`
	// UnsafeMode включает разбор разметки пауз на стороне бэкенда
	UnsafeMode bool `json:"unsafeMode,omitempty"`
}

// buildMarkupPayload собирает JSON-нагрузку для v3 API.
// Построить ее из SSML-запроса нельзя: две формы нагрузки взаимно
// исключены самой конструкцией, ошибка возникает сразу.
func buildMarkupPayload(req *Request, defaultSpeed string) (*markupPayload, error) {
	text, ok := req.Content.(Text)
	if !ok {
		return nil, &RequestError{Reason: "v3 API не принимает SSML, используйте v1"}
	}

	var hints []hint
	if req.Voice != "" {
		hints = append(hints, hint{"voice": req.Voice})
	}
	// neutral — значение по умолчанию, его не отправляем
	if req.Role != "" && req.Role != "neutral" {
		hints = append(hints, hint{"role": req.Role})
	}
	if req.Speed != "" && req.Speed != defaultSpeed {
		hints = append(hints, hint{"speed": req.Speed})
	}

	spec := &outputAudioSpec{}
	switch req.Format {
	case FormatOggOpus:
		spec.ContainerAudio = &containerAudio{ContainerAudioType: "OGG_OPUS"}
	case FormatLPCM:
		spec.RawAudio = &rawAudio{
			AudioEncoding:   "LINEAR16_PCM",
			SampleRateHertz: req.SampleRateHz,
		}
	}

	return &markupPayload{
		Text:            string(text),
		Lang:            req.Lang,
		Hints:           hints,
		OutputAudioSpec: spec,
		UnsafeMode:      req.UseMarkup,
	}, nil
}

// buildSSMLForm собирает form-encoded нагрузку для устаревшего v1 API —
// единственного, который принимает SSML. Идентификатор каталога обязателен.
func buildSSMLForm(req *Request, folderID string) (url.Values, error) {
	ssml, ok := req.Content.(SSML)
	if !ok {
		return nil, &RequestError{Reason: "v1 API используется только для SSML"}
	}
	if folderID == "" {
		return nil, &PreconditionError{Missing: "YANDEX_FOLDER_ID"}
	}

	form := url.Values{}
	form.Set("lang", req.Lang)
	form.Set("format", req.Format)
	form.Set("folderId", folderID)
	form.Set("ssml", string(ssml))
	form.Set("voice", req.Voice)
	if req.Role != "" && req.Role != "neutral" {
		form.Set("emotion", req.Role)
	}
	if req.Speed != "" {
		form.Set("speed", req.Speed)
	}
	if req.Format == FormatLPCM {
		form.Set("sampleRateHertz", strconv.Itoa(req.SampleRateHz))
	}

	return form, nil
}

package speech

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTextRequest(t *testing.T, text string, opts Options) *Request {
	t.Helper()
	req, err := NewTextRequest(text, opts)
	require.NoError(t, err)
	return req
}

func TestBuildMarkupPayloadHints(t *testing.T) {
	// Голос и скорость отличаются от значений по умолчанию, эмоция neutral
	req := mustTextRequest(t, "Привет", Options{
		Voice:     "zahar",
		Role:      "neutral",
		Speed:     "1.2",
		UseMarkup: true,
	})

	payload, err := buildMarkupPayload(req, "1.0")
	require.NoError(t, err)

	// Ровно две подсказки: голос и скорость, каждая — отдельный объект
	// с единственным полем; role для neutral не отправляется
	require.Len(t, payload.Hints, 2)
	assert.Equal(t, hint{"voice": "zahar"}, payload.Hints[0])
	assert.Equal(t, hint{"speed": "1.2"}, payload.Hints[1])
	for i, h := range payload.Hints {
		if len(h) != 1 {
			t.Errorf("подсказка %d должна содержать ровно одно поле, содержит %d", i, len(h))
		}
	}

	assert.True(t, payload.UnsafeMode)
	assert.Equal(t, "ru-RU", payload.Lang)
}

func TestBuildMarkupPayloadRoleHint(t *testing.T) {
	req := mustTextRequest(t, "Привет", Options{Voice: "jane", Role: "evil", Speed: "1.0"})

	payload, err := buildMarkupPayload(req, "1.0")
	require.NoError(t, err)

	// Скорость равна значению по умолчанию и не отправляется
	require.Len(t, payload.Hints, 2)
	assert.Equal(t, hint{"voice": "jane"}, payload.Hints[0])
	assert.Equal(t, hint{"role": "evil"}, payload.Hints[1])
}

func TestBuildMarkupPayloadOggOpus(t *testing.T) {
	req := mustTextRequest(t, "Привет", Options{Voice: "alena"})

	payload, err := buildMarkupPayload(req, "1.0")
	require.NoError(t, err)

	require.NotNil(t, payload.OutputAudioSpec.ContainerAudio)
	assert.Equal(t, "OGG_OPUS", payload.OutputAudioSpec.ContainerAudio.ContainerAudioType)
	assert.Nil(t, payload.OutputAudioSpec.RawAudio)
}

func TestBuildMarkupPayloadLPCM(t *testing.T) {
	req := mustTextRequest(t, "Привет", Options{
		Voice:        "alena",
		Format:       FormatLPCM,
		SampleRateHz: 48000,
	})

	payload, err := buildMarkupPayload(req, "1.0")
	require.NoError(t, err)

	require.NotNil(t, payload.OutputAudioSpec.RawAudio)
	assert.Equal(t, "LINEAR16_PCM", payload.OutputAudioSpec.RawAudio.AudioEncoding)
	assert.Equal(t, 48000, payload.OutputAudioSpec.RawAudio.SampleRateHertz)
}

func TestBuildMarkupPayloadUnsafeModeOmittedFromJSON(t *testing.T) {
	req := mustTextRequest(t, "Привет", Options{Voice: "alena", UseMarkup: false})

	payload, err := buildMarkupPayload(req, "1.0")
	require.NoError(t, err)

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	// unsafeMode присутствует в JSON только когда запрошена разметка
	assert.NotContains(t, string(body), "unsafeMode")
}

func TestBuildMarkupPayloadRejectsSSML(t *testing.T) {
	req, err := NewSSMLRequest("<speak>Привет</speak>", Options{Voice: "alena"})
	require.NoError(t, err)

	_, err = buildMarkupPayload(req, "1.0")

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
}

func TestBuildSSMLForm(t *testing.T) {
	req, err := NewSSMLRequest("<speak>Привет</speak>", Options{
		Voice: "alena",
		Role:  "good",
		Speed: "0.8",
	})
	require.NoError(t, err)

	form, err := buildSSMLForm(req, "folder123")
	require.NoError(t, err)

	assert.Equal(t, "ru-RU", form.Get("lang"))
	assert.Equal(t, "oggopus", form.Get("format"))
	assert.Equal(t, "folder123", form.Get("folderId"))
	assert.Equal(t, "<speak>Привет</speak>", form.Get("ssml"))
	assert.Equal(t, "alena", form.Get("voice"))
	assert.Equal(t, "good", form.Get("emotion"))
	assert.Equal(t, "0.8", form.Get("speed"))
	// sampleRateHertz только для lpcm
	assert.Empty(t, form.Get("sampleRateHertz"))
}

func TestBuildSSMLFormNeutralEmotionOmitted(t *testing.T) {
	req, err := NewSSMLRequest("<speak>П</speak>", Options{Voice: "alena", Role: "neutral"})
	require.NoError(t, err)

	form, err := buildSSMLForm(req, "folder123")
	require.NoError(t, err)

	assert.Empty(t, form.Get("emotion"))
}

func TestBuildSSMLFormLPCMSampleRate(t *testing.T) {
	req, err := NewSSMLRequest("<speak>П</speak>", Options{
		Voice:        "alena",
		Format:       FormatLPCM,
		SampleRateHz: 16000,
	})
	require.NoError(t, err)

	form, err := buildSSMLForm(req, "folder123")
	require.NoError(t, err)

	assert.Equal(t, "lpcm", form.Get("format"))
	assert.Equal(t, "16000", form.Get("sampleRateHertz"))
}

func TestBuildSSMLFormRequiresFolderID(t *testing.T) {
	req, err := NewSSMLRequest("<speak>П</speak>", Options{Voice: "alena"})
	require.NoError(t, err)

	_, err = buildSSMLForm(req, "")

	var preErr *PreconditionError
	require.ErrorAs(t, err, &preErr)
	assert.Equal(t, "YANDEX_FOLDER_ID", preErr.Missing)
}

func TestBuildSSMLFormRejectsPlainText(t *testing.T) {
	req := mustTextRequest(t, "Привет", Options{Voice: "alena"})

	_, err := buildSSMLForm(req, "folder123")

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
}

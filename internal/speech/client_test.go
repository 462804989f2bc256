package speech

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSynthesizer(v3URL, v1URL string) *Synthesizer {
	s := NewSynthesizer(Config{
		APIKey:       "test_key",
		FolderID:     "test_folder",
		DefaultSpeed: "1.0",
	}, zap.NewNop())
	if v3URL != "" {
		s.v3URL = v3URL
	}
	if v1URL != "" {
		s.v1URL = v1URL
	}
	return s
}

func chunkLine(wrapped bool, data []byte) string {
	b64 := base64.StdEncoding.EncodeToString(data)
	if wrapped {
		return fmt.Sprintf(`{"result":{"audioChunk":{"data":"%s"}}}`, b64)
	}
	return fmt.Sprintf(`{"audioChunk":{"data":"%s"}}`, b64)
}

func TestSynthesizeV3BinaryResponse(t *testing.T) {
	audio := []byte{0x4f, 0x67, 0x67, 0x53} // OggS

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Api-Key test_key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload markupPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Привет", payload.Text)

		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(audio)
	}))
	defer server.Close()

	s := newTestSynthesizer(server.URL, "")
	req := mustTextRequest(t, "Привет", Options{Voice: "alena"})

	got, err := s.Synthesize(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, audio, got)
}

func TestSynthesizeV3StreamingResponse(t *testing.T) {
	// Три корректных чанка в разных обертках и одна испорченная строка:
	// битая строка пропускается, три чанка склеиваются по порядку
	body := chunkLine(true, []byte("раз")) + "\n" +
		chunkLine(false, []byte("два")) + "\n" +
		chunkLine(true, []byte("три")) + "\n" +
		"это не json"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	defer server.Close()

	s := newTestSynthesizer(server.URL, "")
	req := mustTextRequest(t, "Привет", Options{Voice: "alena"})

	got, err := s.Synthesize(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, []byte("раздватри"), got, "чанки должны склеиваться в порядке строк")
}

func TestSynthesizeV3NoAudioChunks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":{}}`))
	}))
	defer server.Close()

	s := newTestSynthesizer(server.URL, "")
	req := mustTextRequest(t, "Привет", Options{Voice: "alena"})

	_, err := s.Synthesize(context.Background(), req)

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
}

func TestSynthesizeV3EmptyBinaryBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
	}))
	defer server.Close()

	s := newTestSynthesizer(server.URL, "")
	req := mustTextRequest(t, "Привет", Options{Voice: "alena"})

	_, err := s.Synthesize(context.Background(), req)

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
}

func TestSynthesizeV3BackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Too long text", http.StatusBadRequest)
	}))
	defer server.Close()

	s := newTestSynthesizer(server.URL, "")
	req := mustTextRequest(t, "Привет", Options{Voice: "alena"})

	_, err := s.Synthesize(context.Background(), req)

	var backendErr *BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, http.StatusBadRequest, backendErr.StatusCode)
	assert.True(t, backendErr.IsClientError())
}

func TestSynthesizeV1(t *testing.T) {
	audio := []byte("ssml audio")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "<speak>Привет</speak>", r.PostForm.Get("ssml"))
		assert.Equal(t, "test_folder", r.PostForm.Get("folderId"))

		w.Write(audio)
	}))
	defer server.Close()

	s := newTestSynthesizer("", server.URL)
	req, err := NewSSMLRequest("<speak>Привет</speak>", Options{Voice: "alena"})
	require.NoError(t, err)

	got, err := s.Synthesize(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, audio, got)
}

func TestSynthesizeV1EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := newTestSynthesizer("", server.URL)
	req, err := NewSSMLRequest("<speak>П</speak>", Options{Voice: "alena"})
	require.NoError(t, err)

	_, err = s.Synthesize(context.Background(), req)

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
}

func TestSynthesizeV1MissingFolderID(t *testing.T) {
	// Запрос не должен дойти до сети: прекондиция проверяется до вызова
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	s := NewSynthesizer(Config{APIKey: "k", FolderID: "", DefaultSpeed: "1.0"}, zap.NewNop())
	s.v1URL = server.URL

	req, err := NewSSMLRequest("<speak>П</speak>", Options{Voice: "alena"})
	require.NoError(t, err)

	_, err = s.Synthesize(context.Background(), req)

	var preErr *PreconditionError
	require.ErrorAs(t, err, &preErr)
	assert.False(t, called, "HTTP вызов не должен выполняться без folderId")
}

func TestSynthesizeRoutesByContent(t *testing.T) {
	var v3Calls, v1Calls int

	v3 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v3Calls++
		w.Write([]byte("v3"))
	}))
	defer v3.Close()

	v1 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v1Calls++
		w.Write([]byte("v1"))
	}))
	defer v1.Close()

	s := newTestSynthesizer(v3.URL, v1.URL)

	textReq := mustTextRequest(t, "Привет", Options{Voice: "alena"})
	_, err := s.Synthesize(context.Background(), textReq)
	require.NoError(t, err)

	ssmlReq, err := NewSSMLRequest("<speak>П</speak>", Options{Voice: "alena"})
	require.NoError(t, err)
	_, err = s.Synthesize(context.Background(), ssmlReq)
	require.NoError(t, err)

	assert.Equal(t, 1, v3Calls)
	assert.Equal(t, 1, v1Calls)
}

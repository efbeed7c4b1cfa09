package flashcardsapi

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"flashcard-server-go/internal/domain/flashcards"
	platformtesting "flashcard-server-go/internal/platform/testing"
	httptransport "flashcard-server-go/internal/transport/http"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubProvider struct {
	cards []flashcards.Flashcard
	err   error
}

func (s *stubProvider) GenerateFlashcards(_ context.Context, _, _ string) ([]flashcards.Flashcard, error) {
	return s.cards, s.err
}

func setupFlashcardsAPI(t *testing.T, provider flashcards.Provider) (*gin.Engine, *flashcards.MemoryStore) {
	t.Helper()

	logger := platformtesting.SetupTestLogger(t)
	store := flashcards.NewMemoryStore()
	t.Cleanup(func() { store.Close() })

	decks := flashcards.NewService(
		flashcards.NewRegistryWithProviders(map[string]flashcards.Provider{
			"openai": provider,
			"gemini": provider,
		}),
		store, nil, logger,
	)

	svc, err := NewService(decks, httptransport.NewValidator(), logger)
	platformtesting.AssertNoError(t, err)

	engine := gin.New()
	api := engine.Group("/api")
	api.Use(func(c *gin.Context) {
		c.Set("device_id", "3b241101-e2bb-4255-8caf-4136c566a962")
	})
	platformtesting.AssertNoError(t, svc.Register(context.Background(), api))

	return engine, store
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, payload string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reqBody *strings.Reader
	if payload != "" {
		reqBody = strings.NewReader(payload)
	} else {
		reqBody = strings.NewReader("")
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, w.Body.String())
	}
	return w, body
}

func TestGenerateDeckSuccess(t *testing.T) {
	provider := &stubProvider{cards: []flashcards.Flashcard{
		{Question: "q", Answer: "a", Difficulty: "basic", Tag: "concept"},
	}}
	engine, store := setupFlashcardsAPI(t, provider)

	w, body := doJSON(t, engine, http.MethodPost, "/api/flashcards/generate",
		`{"topic": "golang", "difficulty": "basic", "provider": "openai"}`)

	platformtesting.AssertEqual(t, http.StatusCreated, w.Code)
	platformtesting.AssertEqual(t, "success", body["status"])

	data := body["data"].(map[string]interface{})
	deckID := data["id"].(string)
	platformtesting.AssertEqual(t, "golang", data["topic"])
	cards := data["cards"].([]interface{})
	platformtesting.AssertEqual(t, 1, len(cards))

	stored, err := store.Get(context.Background(), deckID)
	platformtesting.AssertNoError(t, err)
	platformtesting.AssertEqual(t, deckID, stored.ID)
}

func TestGenerateDeckValidation(t *testing.T) {
	engine, _ := setupFlashcardsAPI(t, &stubProvider{})

	w, body := doJSON(t, engine, http.MethodPost, "/api/flashcards/generate",
		`{"topic": "", "difficulty": "expert", "provider": "claude"}`)

	platformtesting.AssertEqual(t, http.StatusBadRequest, w.Code)
	platformtesting.AssertEqual(t, "fail", body["status"])

	data := body["data"].(map[string]interface{})
	platformtesting.AssertEqual(t, "topic should not be empty", data["topic"])
	if !strings.Contains(data["difficulty"].(string), "basic, intermediate, advanced") {
		t.Errorf("unexpected difficulty message: %v", data["difficulty"])
	}
	if !strings.Contains(data["provider"].(string), "openai, gemini") {
		t.Errorf("unexpected provider message: %v", data["provider"])
	}
}

func TestGenerateDeckProviderFailureBecomesErrorEnvelope(t *testing.T) {
	engine, _ := setupFlashcardsAPI(t, &stubProvider{err: stderrors.New("rate limited")})

	w, body := doJSON(t, engine, http.MethodPost, "/api/flashcards/generate",
		`{"topic": "golang", "difficulty": "basic", "provider": "openai"}`)

	platformtesting.AssertEqual(t, http.StatusInternalServerError, w.Code)
	platformtesting.AssertEqual(t, "error", body["status"])
	if !strings.HasPrefix(body["message"].(string), "Consult support for error: ") {
		t.Errorf("unexpected message: %v", body["message"])
	}
}

func TestGenerateDeckEmptyCardsStillSucceeds(t *testing.T) {
	engine, _ := setupFlashcardsAPI(t, &stubProvider{cards: []flashcards.Flashcard{}})

	w, body := doJSON(t, engine, http.MethodPost, "/api/flashcards/generate",
		`{"topic": "golang", "difficulty": "basic", "provider": "openai"}`)

	platformtesting.AssertEqual(t, http.StatusCreated, w.Code)
	data := body["data"].(map[string]interface{})
	cards := data["cards"].([]interface{})
	platformtesting.AssertEqual(t, 0, len(cards))
}

func TestGetDeck(t *testing.T) {
	provider := &stubProvider{cards: []flashcards.Flashcard{{Question: "q", Answer: "a"}}}
	engine, store := setupFlashcardsAPI(t, provider)

	deck := &flashcards.Deck{ID: "deck-1", Topic: "channels", Difficulty: "advanced",
		Cards: []flashcards.Flashcard{{Question: "q", Answer: "a"}}}
	platformtesting.AssertNoError(t, store.Save(context.Background(), deck))

	w, body := doJSON(t, engine, http.MethodGet, "/api/flashcards/deck-1", "")
	platformtesting.AssertEqual(t, http.StatusOK, w.Code)
	platformtesting.AssertEqual(t, "success", body["status"])
	data := body["data"].(map[string]interface{})
	platformtesting.AssertEqual(t, "channels", data["topic"])
}

func TestGetDeckNotFound(t *testing.T) {
	engine, _ := setupFlashcardsAPI(t, &stubProvider{})

	w, body := doJSON(t, engine, http.MethodGet, "/api/flashcards/missing", "")
	platformtesting.AssertEqual(t, http.StatusNotFound, w.Code)
	platformtesting.AssertEqual(t, "fail", body["status"])
	data := body["data"].(map[string]interface{})
	platformtesting.AssertEqual(t, "deck not found", data["id"])
}

package flashcards

// Difficulty levels accepted for deck generation.
const (
	DifficultyBasic        = "basic"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Flashcard is one study card produced by an AI provider.
type Flashcard struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty string `json:"difficulty"`
	Tag        string `json:"tag"`
}

// Deck groups the cards generated for one topic.
type Deck struct {
	ID         string      `json:"id"`
	Topic      string      `json:"topic"`
	Difficulty string      `json:"difficulty"`
	Cards      []Flashcard `json:"cards"`
}

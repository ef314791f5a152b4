package types

// Status is the lifecycle state of a job. Done and Error are terminal.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// TranscriptSegment is one timestamped slice of recognized speech.
// Start and End are seconds rounded to 2 decimals.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is the full recognized text plus its timestamped segments.
type Transcript struct {
	Text     string              `json:"text"`
	Segments []TranscriptSegment `json:"segments"`
}

// TopicSegment is a contiguous run of sentences judged topically coherent.
type TopicSegment struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Summary is the structured summarization output.
type Summary struct {
	Overview          string   `json:"overview"`
	KeyPoints         []string `json:"key_points"`
	ImportantConcepts []string `json:"important_concepts"`
}

// QuizQuestion is one generated question with a cycled difficulty label.
type QuizQuestion struct {
	Question   string `json:"question"`
	Difficulty string `json:"difficulty"`
}

// Quiz groups multiple-choice and short-answer questions.
type Quiz struct {
	MCQs         []QuizQuestion `json:"mcqs"`
	ShortAnswers []QuizQuestion `json:"short_answers"`
}

// Flashcard is one question/answer study pair.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Metrics holds transcription and summarization quality scores.
// WER is nil when no reference transcript was supplied.
type Metrics struct {
	WER    *float64 `json:"wer"`
	Rouge1 float64  `json:"rouge1"`
	RougeL float64  `json:"rougeL"`
}

// Job is the persisted record for one processing request. It is the sole
// source of truth for job state; stage output fields stay nil until their
// owning stage completes.
type Job struct {
	ID       string  `json:"id"`
	Filename string  `json:"filename"`
	Status   Status  `json:"status"`
	Step     string  `json:"step"`
	Error    *string `json:"error"`

	Transcript  *Transcript    `json:"transcript,omitempty"`
	CleanedText string         `json:"cleaned_text,omitempty"`
	Keywords    []string       `json:"keywords,omitempty"`
	Segments    []TopicSegment `json:"segments,omitempty"`
	Summary     *Summary       `json:"summary,omitempty"`
	Quiz        *Quiz          `json:"quiz,omitempty"`
	Flashcards  []Flashcard    `json:"flashcards,omitempty"`
	Metrics     *Metrics       `json:"metrics,omitempty"`
}

package domain

// Modality distinguishes the kind of content a vector was produced from.
type Modality string

const (
	// ModalityText marks vectors produced from extracted document text.
	ModalityText Modality = "text"

	// ModalityImage marks vectors produced from raw image bytes.
	ModalityImage Modality = "image"
)

// Language is the coarse language class of extracted text. It decides
// which embedding pipeline and which table a document lands in.
type Language string

const (
	// LanguageEnglish covers English and any Latin-script text that the
	// detector cannot place elsewhere.
	LanguageEnglish Language = "english"

	// LanguageAmharic covers Ethiopic-script text routed to the
	// multilingual pipeline.
	LanguageAmharic Language = "amharic"

	// LanguageOther covers everything else. It is indexed through the
	// general text pipeline.
	LanguageOther Language = "other"
)

// EmbeddingRecord is one vector-bearing row of the index. A text file
// contributes one record per chunk; an image contributes exactly one.
type EmbeddingRecord struct {
	// FilePath is the absolute path of the source file. All records for
	// a file share it, and deletion is keyed on it.
	FilePath string

	// ContentHash is the SHA-256 hex digest of the content the vector
	// was computed from: extracted text for documents, raw bytes for
	// images.
	ContentHash string

	// ChunkID is the zero-based position of this chunk within the file.
	// Always zero for images.
	ChunkID int

	// Content is the chunk text stored alongside the vector so results
	// can show a snippet. Empty for images.
	Content string

	// Vector is the embedding. Its length must match the dimension of
	// the table it is written to.
	Vector []float32

	// LastModified is the Unix time the record was last written. The
	// store stamps it on every upsert; callers never set it.
	LastModified int64
}

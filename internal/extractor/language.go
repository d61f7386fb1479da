package extractor

import (
	"github.com/abadojack/whatlanggo"

	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/domain"
)

// DetectLanguage classifies text for pipeline routing. Amharic goes to
// the multilingual pipeline, everything else to the general one; the
// English/Other split is informational.
func DetectLanguage(text string) domain.Language {
	info := whatlanggo.Detect(text)
	switch info.Lang {
	case whatlanggo.Amh:
		return domain.LanguageAmharic
	case whatlanggo.Eng:
		return domain.LanguageEnglish
	default:
		return domain.LanguageOther
	}
}

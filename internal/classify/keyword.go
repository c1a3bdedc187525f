package classify

import (
	"log/slog"
	"strings"
)

// Vocabulary holds the keyword lists the rule engine matches against.
// Lists are matched as case-insensitive substrings, each word counted at
// most once per text.
type Vocabulary struct {
	Negative  []string
	Positive  []string
	Neutral   []string
	Technical []string
	Payment   []string
}

// DefaultVocabulary returns the curated Russian-language vocabulary used
// for customer complaints.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Negative: []string{
			"плохо", "ужасно", "отвратительно", "не работает", "ошибка",
			"проблема", "неудобно", "медленно", "зависает", "вылетает",
			"не загружается", "баг", "глюк", "сломано", "неправильно",
			"неудовлетворительно", "разочарован", "злой", "раздражен",
			"грубят", "хамство", "некомпетентно", "обман", "разочарование",
			"негатив", "ненавижу", "ненависть", "кошмар", "катастрофа",
			"отстой", "бесполезно", "бесполезный", "бесполезен",
			"не", "нет", "нельзя", "невозможно", "неверно", "неприятно", "негативно",
			"плохой", "плохая", "плохое", "ужасный", "ужасная", "ужасное",
			"отвратительный", "отвратительная", "сломан", "сломана",
			"неисправен", "неисправна", "недоступен", "недоступна", "недоступно",
		},
		Positive: []string{
			"хорошо", "отлично", "прекрасно", "удобно", "быстро",
			"работает", "нравится", "доволен", "спасибо", "благодарен",
			"рекомендую", "супер", "класс", "замечательно",
		},
		Neutral: []string{
			"информация", "вопрос", "уточнение", "просьба", "запрос",
			"сообщение", "уведомление", "статус", "проверить",
		},
		Technical: []string{
			"сайт", "приложение", "ошибка", "не работает", "зависает",
			"вылетает", "не загружается", "медленно", "баг", "глюк",
			"техническая", "программа",
		},
		Payment: []string{
			"деньги", "оплата", "платеж", "счет", "списали", "дважды",
			"возврат", "штраф", "комиссия", "цена", "стоимость",
		},
	}
}

// KeywordClassifier is the deterministic fallback behind the external
// classification services. Its methods are pure and total: any input,
// including the empty string, yields a label from the closed sets.
type KeywordClassifier struct {
	vocab Vocabulary
}

// NewKeywordClassifier creates a classifier over the given vocabulary.
// The vocabulary is never mutated, so a single instance is safe for
// concurrent use from any number of requests.
func NewKeywordClassifier(vocab Vocabulary) *KeywordClassifier {
	return &KeywordClassifier{vocab: vocab}
}

// Sentiment scores the text against the negative/positive word lists.
// A strict negative majority is negative, an exact nonzero tie is neutral,
// any other nonzero outcome is positive, and no hits at all is neutral.
func (k *KeywordClassifier) Sentiment(text string) Sentiment {
	lower := strings.ToLower(text)

	negative := countMatches(lower, k.vocab.Negative)
	positive := countMatches(lower, k.vocab.Positive)
	neutral := countMatches(lower, k.vocab.Neutral)

	slog.Debug("keyword sentiment counts",
		"negative", negative, "positive", positive, "neutral", neutral)

	switch {
	case negative > 0 && negative > positive:
		return SentimentNegative
	case negative > 0 && negative == positive:
		return SentimentNeutral
	case positive > 0:
		return SentimentPositive
	default:
		return SentimentNeutral
	}
}

// Category checks the technical list first, then the payment list.
// Technical wins when both match; no match at all is "other".
func (k *KeywordClassifier) Category(text string) Category {
	lower := strings.ToLower(text)

	if countMatches(lower, k.vocab.Technical) > 0 {
		return CategoryTechnical
	}
	if countMatches(lower, k.vocab.Payment) > 0 {
		return CategoryPayment
	}
	return CategoryOther
}

func countMatches(lower string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(lower, w) {
			n++
		}
	}
	return n
}

package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSentences_Russian(t *testing.T) {
	tok := NewSentenceTokenizer()

	sents := tok.SplitSentences("Медведи живут в тайге. Они едят ягоды и орехи. Медведя зовут Миша.", "russian")

	assert.Len(t, sents, 3)
	assert.Equal(t, "Медведи живут в тайге.", sents[0])
}

func TestSplitSentences_MixedPunctuation(t *testing.T) {
	tok := NewSentenceTokenizer()

	sents := tok.SplitSentences("Первое предложение. Второе предложение! А это третье?", "russian")

	assert.Len(t, sents, 3)
}

func TestSplitSentences_Deterministic(t *testing.T) {
	tok := NewSentenceTokenizer()
	text := "Первое предложение. Второе предложение! А это третье?"

	first := tok.SplitSentences(text, "russian")
	second := tok.SplitSentences(text, "russian")

	assert.Equal(t, first, second)
}

func TestSplitSentences_UnknownLocaleFallsBack(t *testing.T) {
	tok := NewSentenceTokenizer()

	sents := tok.SplitSentences("One sentence. Another one.", "klingon")

	assert.Equal(t, []string{"One sentence. Another one."}, sents)
}

func TestSplitSentences_EmptyText(t *testing.T) {
	tok := NewSentenceTokenizer()

	assert.Empty(t, tok.SplitSentences("", "russian"))
	assert.Empty(t, tok.SplitSentences("   \n ", "klingon"))
}

package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalsign/healthqa/core"
)

func testEntries() []core.Entry {
	return []core.Entry{
		{Question: "What causes Malaria ?", Label: "cause", Answer: "Malaria is caused by Plasmodium parasites spread through mosquito bites."},
		{Question: "what causes malaria", Label: "information", Answer: "A general overview of how malaria spreads."},
		{Question: "What are the symptoms of Malaria ?", Label: "symptom", Answer: "Fever, chills and headache are the common symptoms."},
		{Question: "What is (are) Malaria ?", Label: "information", Answer: "Malaria, also known as marsh fever, is a mosquito-borne disease."},
		{Question: "What are the treatments for Asthma ?", Label: "treatment", Answer: "Inhaled bronchodilators relieve asthma attacks."},
		{Question: "What is (are) chronic obstructive pulmonary disease (COPD) ?", Label: "information", Answer: "COPD is a progressive lung disease that obstructs airflow."},
	}
}

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(testEntries(), "test-fp")
	require.NoError(t, err)
	return store
}

func TestNewStore(t *testing.T) {
	t.Run("builds indexes", func(t *testing.T) {
		store := testStore(t)
		assert.Equal(t, 6, store.Len())
		assert.Equal(t, "test-fp", store.Fingerprint())
		assert.Equal(t, []string{"cause", "information", "symptom", "treatment"}, store.Labels())
		assert.True(t, store.HasLabel("symptom"))
		assert.False(t, store.HasLabel("prognosis"))
	})

	t.Run("rejects empty corpus", func(t *testing.T) {
		_, err := NewStore(nil, "fp")
		assert.ErrorIs(t, err, ErrEmptyCorpus)
	})
}

func TestExactMatch(t *testing.T) {
	store := testStore(t)

	t.Run("normalized question hits", func(t *testing.T) {
		entry, ok := store.ExactMatch("what are the symptoms of malaria", "")
		require.True(t, ok)
		assert.Equal(t, "symptom", entry.Label)
	})

	t.Run("first occurrence wins on duplicates", func(t *testing.T) {
		entry, ok := store.ExactMatch("what causes malaria", "")
		require.True(t, ok)
		assert.Equal(t, "cause", entry.Label)
	})

	t.Run("label preference on duplicates", func(t *testing.T) {
		entry, ok := store.ExactMatch("what causes malaria", "information")
		require.True(t, ok)
		assert.Equal(t, "information", entry.Label)
	})

	t.Run("unmatched label falls back to first", func(t *testing.T) {
		entry, ok := store.ExactMatch("what causes malaria", "treatment")
		require.True(t, ok)
		assert.Equal(t, "cause", entry.Label)
	})

	t.Run("miss", func(t *testing.T) {
		_, ok := store.ExactMatch("what causes dengue", "")
		assert.False(t, ok)
	})
}

func TestFuzzyMatch(t *testing.T) {
	store := testStore(t)

	t.Run("near-exact typo clears high cutoff", func(t *testing.T) {
		entry, ok := store.FuzzyMatch("what causes malaira", "", 0.92)
		require.True(t, ok)
		assert.Equal(t, "cause", entry.Label)
	})

	t.Run("widens beyond label scope", func(t *testing.T) {
		// No treatment entry resembles the query, so the label-scoped
		// pass fails and the corpus-wide pass finds the cause entry.
		entry, ok := store.FuzzyMatch("what causes malaira", "treatment", 0.92)
		require.True(t, ok)
		assert.Equal(t, "cause", entry.Label)
	})

	t.Run("label scope preferred when it clears", func(t *testing.T) {
		entry, ok := store.FuzzyMatch("what causes malaria", "information", 0.92)
		require.True(t, ok)
		assert.Equal(t, "information", entry.Label)
	})

	t.Run("gibberish misses", func(t *testing.T) {
		_, ok := store.FuzzyMatch("zzqx qqqq vvvv", "", 0.55)
		assert.False(t, ok)
	})

	t.Run("cutoff is inclusive", func(t *testing.T) {
		query := "what causes malaira"
		cutoff := Ratio(query, "what causes malaria")

		_, ok := store.FuzzyMatch(query, "", cutoff)
		assert.True(t, ok, "score equal to cutoff must fire")

		_, ok = store.FuzzyMatch(query, "", cutoff+1e-9)
		assert.False(t, ok, "score just below cutoff must not fire")
	})
}

func TestByLabel(t *testing.T) {
	store := testStore(t)

	entries := store.ByLabel("information")
	require.Len(t, entries, 3)
	assert.Equal(t, "what causes malaria", entries[0].Question)

	assert.Empty(t, store.ByLabel("prognosis"))
}

func TestByConditionSubstring(t *testing.T) {
	store := testStore(t)

	t.Run("question matches preferred", func(t *testing.T) {
		entries := store.ByConditionSubstring("malaria")
		require.Len(t, entries, 4)
		for _, e := range entries {
			assert.Contains(t, e.Question, "alaria")
		}
	})

	t.Run("falls back to answer matches", func(t *testing.T) {
		entries := store.ByConditionSubstring("marsh fever")
		require.Len(t, entries, 1)
		assert.Equal(t, "information", entries[0].Label)
	})

	t.Run("empty condition", func(t *testing.T) {
		assert.Nil(t, store.ByConditionSubstring(""))
	})
}

func TestConditions(t *testing.T) {
	store := testStore(t)
	conditions := store.Conditions()

	assert.Contains(t, conditions, "malaria")
	assert.Contains(t, conditions, "asthma")

	// Longest first, so compound names are scanned before their sub-words.
	for i := 1; i < len(conditions); i++ {
		assert.GreaterOrEqual(t, len(conditions[i-1]), len(conditions[i]))
	}
}

func TestAliases(t *testing.T) {
	store := testStore(t)
	aliases := store.Aliases()

	t.Run("acronym from question", func(t *testing.T) {
		assert.Equal(t, "chronic obstructive pulmonary disease", aliases["copd"])
	})

	t.Run("also-known-as from answer", func(t *testing.T) {
		assert.Equal(t, "malaria", aliases["marsh fever"])
	})

	t.Run("cached across calls", func(t *testing.T) {
		again := store.Aliases()
		assert.Equal(t, len(aliases), len(again))
	})
}

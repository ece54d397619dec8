package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vitalsign/healthqa/core"
)

func TestNormalize(t *testing.T) {
	t.Run("lowercases and strips punctuation", func(t *testing.T) {
		assert.Equal(t, "what causes malaria", Normalize("  What causes Malaria?! "))
	})

	t.Run("collapses whitespace", func(t *testing.T) {
		assert.Equal(t, "a b c", Normalize("a\t b\n\n c"))
	})

	t.Run("keeps hyphens and apostrophes", func(t *testing.T) {
		assert.Equal(t, "alzheimer's disease", Normalize("Alzheimer's disease"))
		assert.Equal(t, "x-linked disorder", Normalize("X-linked disorder"))
	})

	t.Run("idempotent", func(t *testing.T) {
		for _, raw := range []string{
			"What causes Malaria?!",
			"  symptoms...   of, ASTHMA  ",
			"alzheimer's (early-onset)",
		} {
			once := Normalize(raw)
			assert.Equal(t, once, Normalize(once), "input %q", raw)
		}
	})
}

func TestApplyAliases(t *testing.T) {
	rules := compileAliasRules(StaticAliases, map[string]string{
		"marsh fever": "malaria",
	})

	t.Run("expands static alias", func(t *testing.T) {
		assert.Equal(t, "what is tuberculosis", applyAliases("what is tb", rules))
	})

	t.Run("expands corpus alias", func(t *testing.T) {
		assert.Equal(t, "what causes malaria", applyAliases("what causes marsh fever", rules))
	})

	t.Run("whole words only", func(t *testing.T) {
		assert.Equal(t, "what is tbd", applyAliases("what is tbd", rules))
	})

	t.Run("idempotent", func(t *testing.T) {
		once := applyAliases("symptoms of tb", rules)
		assert.Equal(t, once, applyAliases(once, rules))
	})

	t.Run("canonical form already present", func(t *testing.T) {
		assert.Equal(t, "tuberculosis also called tb is contagious",
			applyAliases("tuberculosis also called tb is contagious", rules))
	})
}

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		query  string
		intent Intent
		ok     bool
	}{
		{"what causes malaria", IntentCause, true},
		{"symptoms of asthma", IntentSymptom, true},
		{"treatment options", IntentTreatment, true},
		{"how to prevent cholera", IntentPrevention, true},
		{"information on diabetes", IntentInformation, true},
		{"malaria", "", false},
		// Cause outranks symptom in the fixed priority order.
		{"why do symptoms appear", IntentCause, true},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			intent, ok := DetectIntent(tc.query)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.intent, intent)
			}
		})
	}
}

func TestIntentPhrase(t *testing.T) {
	assert.Equal(t, "what causes", IntentPhrase(IntentCause))
	assert.Equal(t, "what is", IntentPhrase(Intent("unknown")))
}

func TestCanonicalizeIntent(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"how do you get malaria", "what causes malaria"},
		{"why do people develop asthma", "what causes asthma"},
		{"signs of asthma", "symptoms of asthma"},
		{"how to cure cholera", "what are the treatments for cholera"},
		{"ways to avoid influenza", "how to prevent influenza"},
		{"tell me about diabetes", "what is diabetes"},
		// No rule matches: left alone.
		{"what are the symptoms of malaria", "what are the symptoms of malaria"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, CanonicalizeIntent(tc.in))
		})
	}
}

func newTestRewriter(opts ...Option) *Rewriter {
	conditions := []string{"chronic obstructive pulmonary disease", "malaria", "asthma"}
	aliases := map[string]string{"marsh fever": "malaria"}
	return NewRewriter(conditions, aliases, opts...)
}

func TestCanonicalize(t *testing.T) {
	r := newTestRewriter()

	t.Run("full pipeline", func(t *testing.T) {
		assert.Equal(t, "what is tuberculosis", r.Canonicalize("Tell me about TB!"))
	})

	t.Run("idempotent", func(t *testing.T) {
		once := r.Canonicalize("How do you get marsh fever?")
		assert.Equal(t, "what causes malaria", once)
		assert.Equal(t, once, r.Canonicalize(once))
	})
}

func TestRewrite(t *testing.T) {
	r := newTestRewriter()

	userTurn := func(msg string) core.Turn {
		return core.Turn{Sender: core.SenderUser, Message: msg}
	}
	botTurn := func(msg string) core.Turn {
		return core.Turn{Sender: core.SenderBot, Message: msg}
	}

	t.Run("self-contained query unchanged", func(t *testing.T) {
		history := []core.Turn{userTurn("what causes malaria")}
		assert.Equal(t, "what is asthma", r.Rewrite("what is asthma", history))
	})

	t.Run("no history unchanged", func(t *testing.T) {
		assert.Equal(t, "what about it", r.Rewrite("what about it", nil))
	})

	t.Run("intent from query, condition from history", func(t *testing.T) {
		history := []core.Turn{
			userTurn("what causes malaria"),
			botTurn("Malaria is caused by Plasmodium parasites."),
		}
		got := r.Rewrite("what about symptoms", history)
		assert.Equal(t, "what are the symptoms of malaria", got)
	})

	t.Run("intent inherited from last user turn", func(t *testing.T) {
		history := []core.Turn{
			userTurn("how to prevent malaria"),
			botTurn("Sleep under insecticide-treated nets."),
		}
		got := r.Rewrite("and that one", history)
		assert.Equal(t, "how to prevent malaria", got)
	})

	t.Run("most recent condition wins", func(t *testing.T) {
		history := []core.Turn{
			userTurn("what causes malaria"),
			botTurn("Malaria is caused by Plasmodium parasites."),
			userTurn("what is asthma"),
			botTurn("Asthma is a chronic airway condition."),
		}
		got := r.Rewrite("what about it", history)
		assert.Equal(t, "what is asthma", got)
	})

	t.Run("condition recovered via alias", func(t *testing.T) {
		history := []core.Turn{userTurn("is marsh fever dangerous")}
		got := r.Rewrite("what about symptoms", history)
		assert.Equal(t, "what are the symptoms of malaria", got)
	})

	t.Run("no recoverable condition unchanged", func(t *testing.T) {
		history := []core.Turn{userTurn("hello there"), botTurn("Hello! Ask me a health question.")}
		assert.Equal(t, "what about it", r.Rewrite("what about it", history))
	})

	t.Run("history window bounds the scan", func(t *testing.T) {
		narrow := newTestRewriter(WithHistoryWindow(2))
		history := []core.Turn{
			userTurn("what causes malaria"),
			botTurn("Malaria is caused by Plasmodium parasites."),
			userTurn("thanks"),
			botTurn("You're welcome."),
		}
		assert.Equal(t, "what about it", narrow.Rewrite("what about it", history))
	})
}

package healthqa

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalsign/healthqa/ai/mock"
	"github.com/vitalsign/healthqa/core"
	"github.com/vitalsign/healthqa/corpus"
)

const testCSV = `question,qtype,answer
What is (are) malaria ?,information,Malaria is a serious disease caused by a parasite.
What causes malaria ?,cause,Malaria is caused by Plasmodium parasites transmitted through mosquito bites.
What are the symptoms of malaria ?,symptom,"Symptoms of malaria include fever, chills and sweating."
What is (are) asthma ?,information,Asthma is a chronic condition that narrows the airways.
What are the treatments for asthma ?,treatment,Asthma is managed with inhaled bronchodilators.
`

func writeTestCorpus(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o644))
	return path
}

func newTestService(t *testing.T, opts ...ServiceOption) *Service {
	t.Helper()

	opts = append([]ServiceOption{WithProvider(mock.NewMockProvider())}, opts...)
	service, err := NewService(writeTestCorpus(t), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { service.Close() })
	return service
}

func TestNewService(t *testing.T) {
	t.Run("loads corpus", func(t *testing.T) {
		service := newTestService(t)
		assert.Equal(t, 5, service.Store().Len())
		assert.ElementsMatch(t, []string{"cause", "information", "symptom", "treatment"}, service.Store().Labels())
	})

	t.Run("missing corpus file", func(t *testing.T) {
		_, err := NewService(filepath.Join(t.TempDir(), "absent.csv"), WithProvider(mock.NewMockProvider()))
		assert.ErrorIs(t, err, corpus.ErrCorpusNotFound)
	})

	t.Run("missing index disables semantic stage", func(t *testing.T) {
		dir := t.TempDir()
		service := newTestService(t, WithIndexPaths(
			filepath.Join(dir, "absent.vec"), filepath.Join(dir, "absent.meta")))
		assert.Nil(t, service.retriever)
	})
}

func TestAsk(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	res, err := service.Ask(ctx, "What causes malaria?")
	require.NoError(t, err)
	assert.Equal(t, core.StageExact, res.Stage)
	assert.Contains(t, res.Answer, "Plasmodium")
}

func TestAskWithHistory(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	first, err := service.Ask(ctx, "What is malaria?")
	require.NoError(t, err)

	history := []core.Turn{
		{Sender: core.SenderUser, Message: "What is malaria?"},
		{Sender: core.SenderBot, Message: first.Answer},
	}
	res, err := service.AskWithHistory(ctx, "what about symptoms?", history)
	require.NoError(t, err)
	assert.Contains(t, res.Answer, "fever")
	assert.Equal(t, "symptom", res.Label)
}

func TestBuildIndexRoundTrip(t *testing.T) {
	dir := t.TempDir()
	vectorPath := filepath.Join(dir, "index.vec")
	metaPath := filepath.Join(dir, "index.meta")

	builderService := newTestService(t)
	require.NoError(t, builderService.BuildIndex(context.Background(), vectorPath, metaPath))
	require.FileExists(t, vectorPath)
	require.FileExists(t, metaPath)

	// The freshly built artifacts must load and enable the semantic stage
	// for a service over the same corpus.
	service := newTestService(t, WithIndexPaths(vectorPath, metaPath))
	assert.NotNil(t, service.retriever)

	res, err := service.Ask(context.Background(), "What causes malaria?")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Answer)
}

package echoweb

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduport/admin/core"
	"github.com/eduport/admin/core/preview"
	"github.com/eduport/admin/core/session"
	"github.com/eduport/admin/services/backend"
	logsvc "github.com/eduport/admin/services/logger"
	inmemstore "github.com/eduport/admin/storage/sessions/inmem"
)

// purgeCounter records what the repository purged.
type purgeCounter struct {
	session.Repository
	purged int
}

func (pc *purgeCounter) PurgeExpired(ctx context.Context) (int, error) {
	n, err := pc.Repository.(session.Purger).PurgeExpired(ctx)
	pc.purged += n
	return n, err
}

func TestSessions_Sweep(t *testing.T) {
	ctx := context.Background()
	conf := core.NewTestConfig()
	conf.Session.TTL = time.Hour

	repo := &purgeCounter{Repository: inmemstore.NewSessionRepository(inmemstore.Open())}
	sessions := NewSessions(
		conf, repo,
		func() (*backend.Client, error) { return backend.NewClient(conf.Backend) },
		validator.New(),
		logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf),
	)
	// the anonymous sessions are opened 2 hours ago, so their records are expired too
	now := time.Now().Add(-2 * time.Hour)
	sessions.now = func() time.Time { return now }

	const anonymous = 100
	var first *browser
	for i := 0; i < anonymous; i++ {
		b, _, err := sessions.Start(ctx)
		require.NoError(t, err)
		if first == nil {
			first = b
		}
	}
	h := first.previews.Replace("course-add/image", preview.File{Name: "a.png", Data: []byte("png")})
	require.Equal(t, anonymous, sessions.Len())

	n, err := sessions.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "nothing expired yet")
	assert.Equal(t, anonymous, sessions.Len())

	now = now.Add(2 * time.Hour)
	live, liveToken, err := sessions.Start(ctx)
	require.NoError(t, err)

	n, err = sessions.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, anonymous, n)
	assert.Equal(t, 1, sessions.Len())
	assert.Equal(t, anonymous, repo.purged)
	assert.Equal(t, 1, first.previews.Revocations(h), "previews of evicted browsers are revoked")

	resumed, err := sessions.Resume(ctx, liveToken)
	require.NoError(t, err)
	assert.Same(t, live, resumed)
}

package component

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	calls int
	err   error
}

func (u *fakeUploader) Upload(ctx context.Context, filename, contentType string, data []byte) (*Media, error) {
	u.calls++
	if u.err != nil {
		return nil, u.err
	}
	return &Media{Kind: MediaFromServer, ID: "f1", URL: "/files/" + filename, Filename: filename, Filesize: int64(len(data))}, nil
}

func TestMediaStageAndCancel(t *testing.T) {
	stored := &Media{Kind: MediaFromServer, ID: "f0", Filename: "old.png"}

	staged := Stage(stored, "new.PNG", "image/png", []byte("png"))
	assert.Equal(t, MediaUpload, staged.Kind)
	assert.False(t, staged.Persisted())
	assert.Equal(t, "data:image/png;base64,cG5n", staged.Preview)
	assert.Equal(t, "png", staged.Extension())

	restaged := Stage(staged, "other.png", "image/png", []byte("x"))
	assert.Same(t, stored, restaged.Previous)

	u := &fakeUploader{}
	assert.Same(t, stored, restaged.Cancel())
	assert.Zero(t, u.calls)
	assert.Nil(t, Stage(nil, "a.png", "image/png", nil).Cancel())
	assert.Same(t, stored, stored.Cancel())
}

func TestMediaCommit(t *testing.T) {
	ctx := context.Background()
	u := &fakeUploader{}

	stored := &Media{Kind: MediaFromServer, ID: "f0"}
	got, err := stored.Commit(ctx, u)
	require.NoError(t, err)
	assert.Same(t, stored, got)
	assert.Zero(t, u.calls)

	got, err = Stage(stored, "a.txt", "", []byte("hello")).Commit(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, 1, u.calls)
	assert.True(t, got.Persisted())
	assert.Equal(t, "/files/a.txt", got.URL)

	u.err = errors.New("quota")
	_, err = Stage(stored, "b.txt", "", []byte("x")).Commit(ctx, u)
	assert.ErrorContains(t, err, "quota")
}

package shelf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paginoid/paginoid-server/internal/domain"
	domainerrors "github.com/paginoid/paginoid-server/internal/errors"
)

func newTestForm(store *fakeStore, ident *domain.Identity, onSuccess func()) (*Form, *fakeAlerter) {
	alerter := &fakeAlerter{}
	adapter := NewAdapter(store, &fakeConfirmer{answer: true}, alerter, testLogger(),
		func([]*domain.Book) {}, func(error) {})
	form := NewForm(adapter, func() *domain.Identity { return ident }, onSuccess)
	return form, alerter
}

func signedIn() *domain.Identity {
	return &domain.Identity{ID: "usr_1", Email: "ana@example.com"}
}

func TestFormDefaults(t *testing.T) {
	form, _ := newTestForm(&fakeStore{}, signedIn(), nil)

	title, author, status, rating, review := form.Fields()
	assert.Empty(t, title)
	assert.Empty(t, author)
	assert.Equal(t, domain.StatusToRead, status)
	assert.Zero(t, rating)
	assert.Empty(t, review)
}

func TestFormIgnoresInvalidStatus(t *testing.T) {
	form, _ := newTestForm(&fakeStore{}, signedIn(), nil)

	form.SetStatus(domain.Status("shelved"))
	_, _, status, _, _ := form.Fields()
	assert.Equal(t, domain.StatusToRead, status)
}

func TestFormClampsRating(t *testing.T) {
	form, _ := newTestForm(&fakeStore{}, signedIn(), nil)

	form.SetRating(9)
	_, _, _, rating, _ := form.Fields()
	assert.Equal(t, domain.MaxRating, rating)

	form.SetRating(-3)
	_, _, _, rating, _ = form.Fields()
	assert.Equal(t, domain.MinRating, rating)
}

func TestSubmitRequiresTitleAndAuthor(t *testing.T) {
	store := &fakeStore{}
	form, _ := newTestForm(store, signedIn(), nil)

	form.SetTitle("   ")
	form.SetAuthor("Cortázar")

	err := form.Submit(context.Background())
	require.Error(t, err)

	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeValidation, derr.Code)
	assert.Empty(t, store.created, "nothing persisted on validation failure")

	// The fields survive a failed submit.
	_, author, _, _, _ := form.Fields()
	assert.Equal(t, "Cortázar", author)
}

func TestSubmitRequiresSession(t *testing.T) {
	store := &fakeStore{}
	form, _ := newTestForm(store, nil, nil)

	form.SetTitle("Rayuela")
	form.SetAuthor("Cortázar")

	err := form.Submit(context.Background())
	require.Error(t, err)

	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeSession, derr.Code)
	assert.Empty(t, store.created)
	assert.False(t, form.CanSubmit())
}

func TestSubmitCreatesAndClears(t *testing.T) {
	store := &fakeStore{}
	succeeded := false
	form, _ := newTestForm(store, signedIn(), func() { succeeded = true })

	form.SetTitle("  Rayuela  ")
	form.SetAuthor("Julio Cortázar")
	form.SetStatus(domain.StatusReading)
	form.SetRating(4)
	form.SetReview("relectura")

	require.NoError(t, form.Submit(context.Background()))
	require.Len(t, store.created, 1)

	created := store.created[0]
	assert.Equal(t, "Rayuela", created.Title, "title is trimmed before persisting")
	assert.Equal(t, "Julio Cortázar", created.Author)
	assert.Equal(t, domain.StatusReading, created.Status)
	assert.Equal(t, 4, created.Rating)
	assert.Equal(t, "relectura", created.Review)
	assert.Zero(t, created.CurrentPage)
	assert.Zero(t, created.TotalPages)
	assert.False(t, created.CreatedAt.IsZero())

	title, author, status, rating, review := form.Fields()
	assert.Empty(t, title)
	assert.Empty(t, author)
	assert.Equal(t, domain.StatusToRead, status)
	assert.Zero(t, rating)
	assert.Empty(t, review)
	assert.True(t, succeeded)
}

func TestSubmitWriteErrorKeepsFields(t *testing.T) {
	store := &fakeStore{createErr: errStoreDown}
	form, alerter := newTestForm(store, signedIn(), nil)

	form.SetTitle("Rayuela")
	form.SetAuthor("Cortázar")

	err := form.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, alerter.count(), "write failures alert the user")

	title, _, _, _, _ := form.Fields()
	assert.Equal(t, "Rayuela", title, "fields survive a failed write")
	assert.True(t, form.CanSubmit(), "in-flight marker cleared after failure")
}

func TestSubmitBlocksWhileInFlight(t *testing.T) {
	gate := make(chan struct{})
	store := &fakeStore{createGo: gate}
	form, _ := newTestForm(store, signedIn(), nil)

	form.SetTitle("Rayuela")
	form.SetAuthor("Cortázar")

	firstDone := make(chan error, 1)
	go func() { firstDone <- form.Submit(context.Background()) }()

	waitFor(t, func() bool { return !form.CanSubmit() })

	err := form.Submit(context.Background())
	require.Error(t, err)
	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeValidation, derr.Code)

	close(gate)
	require.NoError(t, <-firstDone)
	assert.Len(t, store.created, 1, "only the first submit persisted")
}

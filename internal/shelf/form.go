package shelf

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/paginoid/paginoid-server/internal/domain"
	"github.com/paginoid/paginoid-server/internal/errors"
)

// Form is the add-book form controller. Field state is transient: it lives
// only until a successful submit clears it.
type Form struct {
	adapter  *Adapter
	identity func() *domain.Identity
	// onSuccess runs after a successful submit, once the fields are cleared.
	onSuccess func()

	mu       sync.Mutex
	title    string
	author   string
	status   domain.Status
	rating   int
	review   string
	inFlight bool
}

// NewForm creates a form controller. identity supplies the current session
// identity at submit time; onSuccess may be nil.
func NewForm(adapter *Adapter, identity func() *domain.Identity, onSuccess func()) *Form {
	return &Form{
		adapter:   adapter,
		identity:  identity,
		onSuccess: onSuccess,
		status:    domain.StatusToRead,
	}
}

// SetTitle sets the title field.
func (f *Form) SetTitle(title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.title = title
}

// SetAuthor sets the author field.
func (f *Form) SetAuthor(author string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.author = author
}

// SetStatus sets the status field. Invalid statuses are ignored.
func (f *Form) SetStatus(status domain.Status) {
	if !status.IsValid() {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

// SetRating sets the rating field, clamped to the valid range.
func (f *Form) SetRating(rating int) {
	if rating < domain.MinRating {
		rating = domain.MinRating
	}
	if rating > domain.MaxRating {
		rating = domain.MaxRating
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rating = rating
}

// SetReview sets the review field.
func (f *Form) SetReview(review string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.review = review
}

// Fields returns the current field values.
func (f *Form) Fields() (title, author string, status domain.Status, rating int, review string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.title, f.author, f.status, f.rating, f.review
}

// CanSubmit reports whether the form accepts a submit right now: no submit
// in flight and a signed-in identity present.
func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.inFlight && f.identity().Authenticated()
}

// Submit validates the fields and creates the book. On success the fields
// are cleared (status back to ToRead, rating back to zero) and the success
// callback runs. Validation and session errors are local: they leave the
// fields untouched and nothing else happens.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return errors.Validation("a submit is already in flight")
	}

	ident := f.identity()
	if !ident.Authenticated() {
		f.mu.Unlock()
		return errors.Session("debes iniciar sesión para agregar libros")
	}

	title := strings.TrimSpace(f.title)
	author := strings.TrimSpace(f.author)
	if title == "" || author == "" {
		f.mu.Unlock()
		return errors.Validation("título y autor son obligatorios")
	}

	f.inFlight = true
	book := &domain.Book{
		Title:       title,
		Author:      author,
		Status:      f.status,
		Rating:      f.rating,
		Review:      f.review,
		CurrentPage: 0,
		TotalPages:  0,
		CreatedAt:   time.Now(),
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight = false
		f.mu.Unlock()
	}()

	if _, err := f.adapter.Create(ctx, ident.ID, book); err != nil {
		return err
	}

	f.mu.Lock()
	f.title = ""
	f.author = ""
	f.status = domain.StatusToRead
	f.rating = 0
	f.review = ""
	f.mu.Unlock()

	if f.onSuccess != nil {
		f.onSuccess()
	}

	return nil
}

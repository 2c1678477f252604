package services

import "errors"

var (
	ErrNoTables             = errors.New("no tables selected")
	ErrTableAlreadyCombined = errors.New("table already combined")
	ErrSectionMismatch      = errors.New("tables belong to different dining sections")
	ErrTableNotFound        = errors.New("dining table not found")
	ErrAreaNotFound         = errors.New("dining area not found")
	ErrNotACombo            = errors.New("dining table is not a combo")
)

// Translator menerjemahkan key pesan, lihat lang.Translator
type Translator interface {
	Message(key string) string
}

// DomainError adalah error yang boleh ditampilkan ke user. Err berisi
// sentinel di atas sehingga errors.Is tetap bisa dipakai.
type DomainError struct {
	Err     error
	Key     string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func newDomainError(tr Translator, err error, key string) *DomainError {
	msg := err.Error()
	if tr != nil {
		msg = tr.Message(key)
	}
	return &DomainError{Err: err, Key: key, Message: msg}
}

// IsDomainError -> true untuk error validasi yang tidak perlu di-retry
func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

package uvrip

// Accessor reads the data arrays of random groups.
//
// ReadGroup returns count consecutive values of the data array of the 1-based
// group, starting at the 1-based element first. Undefined values are
// replaced by fill and reported through anyNull. Requests outside the file
// are the accessor's to reject.
type Accessor interface {
	ReadGroup(group, first, count uint64, fill float32) (values []float32, anyNull bool, err error)
}

// HeaderSource looks up string header keywords. A missing keyword is not an
// error: it returns ok == false.
type HeaderSource interface {
	HeaderString(key string) (value string, ok bool, err error)
}

var (
	_ Accessor     = (*File)(nil)
	_ HeaderSource = (*File)(nil)
)

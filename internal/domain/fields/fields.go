package fields

import "strconv"

// Rating is the read-time average score of a title. A title with no reviews
// has no rating at all, so it marshals to null rather than 0.
type Rating struct {
	Value float64
	Valid bool
}

func NewRating(avg *float64) Rating {
	if avg == nil {
		return Rating{}
	}
	return Rating{Value: *avg, Valid: true}
}

func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(r.Value, 'f', 1, 64)), nil
}

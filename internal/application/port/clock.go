package port

import "time"

// Clock supplies "now" to every derived view and mutation
type Clock interface {
	Now() time.Time
}

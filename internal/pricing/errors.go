package pricing

import "errors"

var errNegativeRate = errors.New("pricing: tax rate must not be negative")

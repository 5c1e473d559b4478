package checkout

import "errors"

var ErrEmptySelection = errors.New("no cart lines selected for checkout")

package stock

import "errors"

// ErrRequestFailed wraps transport and decoding failures against the
// market data provider.
var ErrRequestFailed = errors.New("stock data request failed")

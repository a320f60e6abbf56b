package model

// PaymentRequest is the transient, signed request handed to a gateway.
// Params holds the canonical parameter set the signature was computed over;
// Signature is the lowercase hex HMAC of their canonical string.
type PaymentRequest struct {
	Gateway   string
	OrderRef  string
	Amount    int64
	Params    map[string]string
	Signature string
}

// PaymentCallback is the transient, parsed form of an inbound gateway
// callback. RawParams carries every received field verbatim for signature
// recomputation.
type PaymentCallback struct {
	Gateway    string
	OrderRef   string
	ResultCode string
	Signature  string
	RawParams  map[string]string
}

package daraja

import (
	"fmt"
	"strconv"
)

// STKPushInput describes one push request. Phone must already be in
// 2547XXXXXXXX form (see FormatPhone).
type STKPushInput struct {
	Phone            string
	Amount           int
	AccountReference string
	TransactionDesc  string
}

// oauthResponse is the token grant payload. Daraja returns expires_in as a
// string.
type oauthResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// stkPushRequest is the Daraja wire format for process requests.
type stkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int    `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

// STKPushResponse is the immediate answer to a push request. The error
// fields are only set on business rejects, which Daraja delivers with
// lowercase keys.
type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`

	RequestID    string `json:"requestId,omitempty"`
	ErrorCode    string `json:"errorCode,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// Accepted reports whether Daraja queued the push for the handset.
func (r *STKPushResponse) Accepted() bool {
	return r.ErrorCode == "" && r.ResponseCode == "0"
}

// Err converts a business reject into an error, nil otherwise.
func (r *STKPushResponse) Err() error {
	if r.ErrorCode != "" {
		return fmt.Errorf("daraja: %s (%s)", r.ErrorMessage, r.ErrorCode)
	}
	if r.ResponseCode != "" && r.ResponseCode != "0" {
		return fmt.Errorf("daraja: %s (response code %s)", r.ResponseDescription, r.ResponseCode)
	}
	return nil
}

// stkQueryRequest is the Daraja wire format for status queries.
type stkQueryRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
}

// STKQueryResponse is the answer to a status query. ResultCode arrives as a
// string here even though the callback sends an integer.
type STKQueryResponse struct {
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResultCode          string `json:"ResultCode"`
	ResultDesc          string `json:"ResultDesc"`

	RequestID    string `json:"requestId,omitempty"`
	ErrorCode    string `json:"errorCode,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// Resolved reports whether the query carries a final result. While the
// push is still on the handset Daraja answers with a "being processed"
// business error instead.
func (r *STKQueryResponse) Resolved() bool {
	return r.ErrorCode == "" && r.ResultCode != ""
}

// ResultCodeInt parses the string result code; -1 when absent or garbled.
func (r *STKQueryResponse) ResultCodeInt() int {
	if r.ResultCode == "" {
		return -1
	}
	n, err := strconv.Atoi(r.ResultCode)
	if err != nil {
		return -1
	}
	return n
}

// CallbackEnvelope is the wrapper Daraja posts to the callback URL.
type CallbackEnvelope struct {
	Body struct {
		StkCallback StkCallback `json:"stkCallback"`
	} `json:"Body"`
}

// StkCallback is the payment result inside a callback.
type StkCallback struct {
	MerchantRequestID string            `json:"MerchantRequestID"`
	CheckoutRequestID string            `json:"CheckoutRequestID"`
	ResultCode        int               `json:"ResultCode"`
	ResultDesc        string            `json:"ResultDesc"`
	CallbackMetadata  *CallbackMetadata `json:"CallbackMetadata,omitempty"`
}

// CallbackMetadata holds the name/value items sent on success.
type CallbackMetadata struct {
	Item []MetadataItem `json:"Item"`
}

// MetadataItem is one metadata entry. Value is a string for the receipt
// number and a JSON number for amount, phone and transaction date.
type MetadataItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value,omitempty"`
}

// Success reports whether the customer completed the payment.
func (c *StkCallback) Success() bool {
	return c.ResultCode == 0
}

// MetaString returns a metadata value rendered as a string. Numeric values
// (amount, msisdn, transaction date) are formatted without an exponent.
func (c *StkCallback) MetaString(name string) string {
	if c.CallbackMetadata == nil {
		return ""
	}
	for _, item := range c.CallbackMetadata.Item {
		if item.Name != name {
			continue
		}
		switch v := item.Value.(type) {
		case string:
			return v
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case nil:
			return ""
		default:
			return fmt.Sprintf("%v", v)
		}
	}
	return ""
}

// Receipt returns the MpesaReceiptNumber metadata value.
func (c *StkCallback) Receipt() string {
	return c.MetaString("MpesaReceiptNumber")
}

// TransactionDate returns the TransactionDate metadata value in
// YYYYMMDDHHMMSS form.
func (c *StkCallback) TransactionDate() string {
	return c.MetaString("TransactionDate")
}

// PhoneNumber returns the paying MSISDN.
func (c *StkCallback) PhoneNumber() string {
	return c.MetaString("PhoneNumber")
}

// Amount returns the paid amount, 0 when missing.
func (c *StkCallback) Amount() float64 {
	if c.CallbackMetadata == nil {
		return 0
	}
	for _, item := range c.CallbackMetadata.Item {
		if item.Name == "Amount" {
			if v, ok := item.Value.(float64); ok {
				return v
			}
		}
	}
	return 0
}

// CallbackAck is the acknowledgment Daraja expects from the callback URL.
type CallbackAck struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

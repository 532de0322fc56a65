// Package efris reports posted invoices to the URA EFRIS invoice-upload interface (T109).
package efris

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/core/ports"
	"github.com/google/uuid"
)

const (
	interfaceCode  = "T109"
	appID          = "AP04"
	clientVersion  = "1.1.20191201"
	requestTime    = "2006-01-02 15:04:05"
	successCode    = "00"
	maxErrorBodyKB = 4
)

// Config identifies the taxpayer and device the notices are sent on behalf of.
type Config struct {
	URL      string
	TIN      string
	DeviceNo string
	Timeout  time.Duration
}

// Client is a FiscalNotifier that posts T109 envelopes over HTTP.
type Client struct {
	cfg        Config
	httpClient *http.Client
	now        func() time.Time
}

var _ ports.FiscalNotifier = (*Client)(nil)

// NewClient creates a Client. A zero timeout defaults to 10s.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		now:        time.Now,
	}
}

type envelope struct {
	Data            envelopeData    `json:"data"`
	GlobalInfo      globalInfo      `json:"globalInfo"`
	ReturnStateInfo returnStateInfo `json:"returnStateInfo"`
}

type envelopeData struct {
	Content         string          `json:"content"`
	Signature       string          `json:"signature"`
	DataDescription dataDescription `json:"dataDescription"`
}

type dataDescription struct {
	CodeType    string `json:"codeType"`
	EncryptCode string `json:"encryptCode"`
	ZipCode     string `json:"zipCode"`
}

type globalInfo struct {
	AppID          string      `json:"appId"`
	Version        string      `json:"version"`
	DataExchangeID string      `json:"dataExchangeId"`
	InterfaceCode  string      `json:"interfaceCode"`
	RequestCode    string      `json:"requestCode"`
	RequestTime    string      `json:"requestTime"`
	ResponseCode   string      `json:"responseCode"`
	UserName       string      `json:"userName"`
	DeviceMAC      string      `json:"deviceMAC"`
	DeviceNo       string      `json:"deviceNo"`
	TIN            string      `json:"tin"`
	TaxpayerID     string      `json:"taxpayerID"`
	AgentType      string      `json:"agentType"`
	ExtendField    extendField `json:"extendField"`
}

type extendField struct {
	ReferenceNo     string `json:"referenceNo"`
	ItemDescription string `json:"itemDescription"`
	Currency        string `json:"currency"`
	GrossAmount     string `json:"grossAmount"`
}

type returnStateInfo struct {
	ReturnCode    string `json:"returnCode"`
	ReturnMessage string `json:"returnMessage"`
}

// invoiceContent is the inner T109 message. Only the parts the ledger knows are filled in.
type invoiceContent struct {
	BasicInformation basicInformation `json:"basicInformation"`
	Summary          summary          `json:"summary"`
}

type basicInformation struct {
	InvoiceNo   string `json:"invoiceNo"`
	DeviceNo    string `json:"deviceNo"`
	IssuedDate  string `json:"issuedDate"`
	Currency    string `json:"currency"`
	InvoiceType string `json:"invoiceType"`
	InvoiceKind string `json:"invoiceKind"`
	DataSource  string `json:"dataSource"`
}

type summary struct {
	GrossAmount string `json:"grossAmount"`
	Remarks     string `json:"remarks"`
}

func (c *Client) buildEnvelope(notice domain.FiscalNotice) (envelope, error) {
	content, err := json.Marshal(invoiceContent{
		BasicInformation: basicInformation{
			InvoiceNo:   notice.Reference,
			DeviceNo:    c.cfg.DeviceNo,
			IssuedDate:  notice.TransactionDate + " 00:00:00",
			Currency:    notice.Currency,
			InvoiceType: "1",
			InvoiceKind: "1",
			DataSource:  "103",
		},
		Summary: summary{GrossAmount: notice.Total, Remarks: notice.Description},
	})
	if err != nil {
		return envelope{}, fmt.Errorf("failed to encode invoice content: %w", err)
	}

	return envelope{
		Data: envelopeData{
			Content:         base64.StdEncoding.EncodeToString(content),
			DataDescription: dataDescription{CodeType: "0", EncryptCode: "1", ZipCode: "0"},
		},
		GlobalInfo: globalInfo{
			AppID:          appID,
			Version:        clientVersion,
			DataExchangeID: uuid.NewString(),
			InterfaceCode:  interfaceCode,
			RequestCode:    "TP",
			RequestTime:    c.now().Format(requestTime),
			ResponseCode:   "TA",
			UserName:       "admin",
			DeviceMAC:      "FFFFFFFFFFFF",
			DeviceNo:       c.cfg.DeviceNo,
			TIN:            c.cfg.TIN,
			TaxpayerID:     "1",
			AgentType:      "0",
			ExtendField: extendField{
				ReferenceNo:     notice.Reference,
				ItemDescription: truncate(notice.Description, 100),
				Currency:        notice.Currency,
				GrossAmount:     notice.Total,
			},
		},
	}, nil
}

// NotifyInvoicePosted uploads one posted invoice. A non-2xx status or a return code
// other than "00" is an error.
func (c *Client) NotifyInvoicePosted(ctx context.Context, notice domain.FiscalNotice) error {
	if c.cfg.TIN == "" {
		return fmt.Errorf("efris: TIN is not configured")
	}
	env, err := c.buildEnvelope(notice)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("efris: failed to encode envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("efris: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("efris: failed to send %s: %w", notice.Reference, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyKB*1024))
	if err != nil {
		return fmt.Errorf("efris: failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("efris: upload of %s failed: status=%d body=%s", notice.Reference, resp.StatusCode, body)
	}

	var reply envelope
	if err := json.Unmarshal(body, &reply); err == nil && reply.ReturnStateInfo.ReturnCode != "" &&
		reply.ReturnStateInfo.ReturnCode != successCode {
		return fmt.Errorf("efris: upload of %s rejected: code=%s message=%s",
			notice.Reference, reply.ReturnStateInfo.ReturnCode, reply.ReturnStateInfo.ReturnMessage)
	}

	slog.InfoContext(ctx, "Invoice reported to EFRIS", slog.String("reference", notice.Reference), slog.String("organization_id", notice.OrganizationID))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

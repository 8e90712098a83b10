package opensubtitles

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/rpc"
	"strconv"
	"strings"
	"time"

	"github.com/kolo/xmlrpc"
)

const (
	// DefaultEndpoint is the public XML-RPC endpoint of the catalog.
	DefaultEndpoint  = "http://api.opensubtitles.org/xml-rpc"
	defaultUserAgent = "subberthehut"
	defaultLanguage  = "en"

	// MatchedByHash is the MatchedBy value reported for fingerprint matches.
	MatchedByHash = "moviehash"
)

// ErrMalformedResponse marks replies whose shape does not match the protocol.
var ErrMalformedResponse = errors.New("opensubtitles: malformed response")

// Config describes the catalog client configuration.
type Config struct {
	Endpoint  string
	UserAgent string
	// Language is the interface language sent with LogIn.
	Language string
	Username string
	Password string
	// Timeout bounds the wait for response headers; zero waits forever.
	Timeout   time.Duration
	Transport http.RoundTripper
}

// caller is the subset of *xmlrpc.Client the client depends on.
type caller interface {
	Go(serviceMethod string, args any, reply any, done chan *rpc.Call) *rpc.Call
	Close() error
}

// Client wraps the catalog XML-RPC API.
type Client struct {
	endpoint  string
	userAgent string
	language  string
	username  string
	password  string
	rpc       caller
}

// Session carries the token obtained from LogIn. It is read-only after login
// and shared by every call of a run.
type Session struct {
	Token string
}

// Fault is a remote failure: an XML-RPC fault, or a reply whose status member
// is not 200.
type Fault struct {
	Method  string
	Code    int
	Message string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("opensubtitles: %s fault %d: %s", f.Method, f.Code, f.Message)
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	language := strings.TrimSpace(cfg.Language)
	if language == "" {
		language = defaultLanguage
	}
	transport := cfg.Transport
	if transport == nil {
		base := http.DefaultTransport.(*http.Transport).Clone()
		base.ResponseHeaderTimeout = cfg.Timeout
		transport = base
	}
	rpcClient, err := xmlrpc.NewClient(endpoint, transport)
	if err != nil {
		return nil, fmt.Errorf("opensubtitles: create xml-rpc client: %w", err)
	}
	return &Client{
		endpoint:  endpoint,
		userAgent: userAgent,
		language:  language,
		username:  cfg.Username,
		password:  cfg.Password,
		rpc:       rpcClient,
	}, nil
}

// Endpoint reports the URL the client talks to.
func (c *Client) Endpoint() string {
	if c == nil {
		return ""
	}
	return c.endpoint
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	if c == nil || c.rpc == nil {
		return nil
	}
	return c.rpc.Close()
}

type statusReply struct {
	Status string `xmlrpc:"status"`
}

type loginReply struct {
	Token  string `xmlrpc:"token"`
	Status string `xmlrpc:"status"`
}

type dataReply struct {
	Status string `xmlrpc:"status"`
	Data   any    `xmlrpc:"data"`
}

// Login opens a session. Empty credentials log in anonymously.
func (c *Client) Login(ctx context.Context) (Session, error) {
	if c == nil {
		return Session{}, errors.New("opensubtitles: client is nil")
	}
	var reply loginReply
	args := []any{c.username, c.password, c.language, c.userAgent}
	if err := c.call(ctx, "LogIn", args, &reply); err != nil {
		return Session{}, err
	}
	if err := checkStatus("LogIn", reply.Status); err != nil {
		return Session{}, err
	}
	if strings.TrimSpace(reply.Token) == "" {
		return Session{}, fmt.Errorf("%w: LogIn returned no token", ErrMalformedResponse)
	}
	return Session{Token: reply.Token}, nil
}

// Logout closes the session on the catalog side.
func (c *Client) Logout(ctx context.Context, session Session) error {
	if c == nil {
		return errors.New("opensubtitles: client is nil")
	}
	var reply statusReply
	if err := c.call(ctx, "LogOut", []any{session.Token}, &reply); err != nil {
		return err
	}
	return checkStatus("LogOut", reply.Status)
}

// Search issues one SearchSubtitles call carrying every query and returns the
// hits in response order. A reply whose data member is false means no hits.
func (c *Client) Search(ctx context.Context, session Session, queries []Query, limit int) ([]Hit, error) {
	if c == nil {
		return nil, errors.New("opensubtitles: client is nil")
	}
	if len(queries) == 0 {
		return nil, errors.New("opensubtitles: no search queries")
	}
	params := make([]any, 0, len(queries))
	for _, query := range queries {
		params = append(params, query.params())
	}
	args := []any{session.Token, params}
	if limit > 0 {
		args = append(args, map[string]any{"limit": limit})
	}

	var reply dataReply
	if err := c.call(ctx, "SearchSubtitles", args, &reply); err != nil {
		return nil, err
	}
	if err := checkStatus("SearchSubtitles", reply.Status); err != nil {
		return nil, err
	}

	switch data := reply.Data.(type) {
	case nil, bool:
		return nil, nil
	case []any:
		hits := make([]Hit, 0, len(data))
		for i, entry := range data {
			member, ok := entry.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: search hit %d is %T", ErrMalformedResponse, i, entry)
			}
			hits = append(hits, hitFromMember(member))
		}
		return hits, nil
	default:
		return nil, fmt.Errorf("%w: search data is %T", ErrMalformedResponse, reply.Data)
	}
}

// Download fetches the encoded payload (Base64 of gzip) for one subtitle file.
func (c *Client) Download(ctx context.Context, session Session, fileID int64) (string, error) {
	if c == nil {
		return "", errors.New("opensubtitles: client is nil")
	}
	if fileID <= 0 {
		return "", errors.New("opensubtitles: invalid file id")
	}
	var reply dataReply
	if fileID > math.MaxInt32 {
		return "", fmt.Errorf("opensubtitles: file id %d exceeds the xml-rpc int range", fileID)
	}
	// The catalog expects the id as an XML-RPC <int>, not a string.
	args := []any{session.Token, []any{int(fileID)}}
	if err := c.call(ctx, "DownloadSubtitles", args, &reply); err != nil {
		return "", err
	}
	if err := checkStatus("DownloadSubtitles", reply.Status); err != nil {
		return "", err
	}
	entries, ok := reply.Data.([]any)
	if !ok || len(entries) == 0 {
		return "", fmt.Errorf("%w: download returned no data for file %d", ErrMalformedResponse, fileID)
	}
	member, ok := entries[0].(map[string]any)
	if !ok {
		return "", fmt.Errorf("%w: download entry is %T", ErrMalformedResponse, entries[0])
	}
	payload, ok := member["data"].(string)
	if !ok {
		return "", fmt.Errorf("%w: download entry has no data string", ErrMalformedResponse)
	}
	return payload, nil
}

func (c *Client) call(ctx context.Context, method string, args []any, reply any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	pending := c.rpc.Go(method, args, reply, make(chan *rpc.Call, 1))
	select {
	case <-ctx.Done():
		return fmt.Errorf("opensubtitles: %s: %w", method, ctx.Err())
	case done := <-pending.Done:
		if done.Error == nil {
			return nil
		}
		if fault := parseFault(method, done.Error); fault != nil {
			return fault
		}
		return fmt.Errorf("opensubtitles: %s request failed: %w", method, done.Error)
	}
}

// parseFault recovers the code and message of an XML-RPC fault, which
// net/rpc flattens into a ServerError string of the form "Fault(code): message".
func parseFault(method string, err error) *Fault {
	var serverErr rpc.ServerError
	if !errors.As(err, &serverErr) {
		return nil
	}
	text := string(serverErr)
	rest, ok := strings.CutPrefix(text, "Fault(")
	if !ok {
		return &Fault{Method: method, Message: text}
	}
	codeText, message, ok := strings.Cut(rest, "): ")
	if !ok {
		return &Fault{Method: method, Message: text}
	}
	code, convErr := strconv.Atoi(codeText)
	if convErr != nil {
		return &Fault{Method: method, Message: text}
	}
	return &Fault{Method: method, Code: code, Message: message}
}

// checkStatus treats a status member other than "200 ..." as a fault. An
// absent status is accepted.
func checkStatus(method, status string) error {
	status = strings.TrimSpace(status)
	if status == "" || strings.HasPrefix(status, "200") {
		return nil
	}
	codeText, message, _ := strings.Cut(status, " ")
	code, err := strconv.Atoi(codeText)
	if err != nil {
		return &Fault{Method: method, Message: status}
	}
	if message == "" {
		message = status
	}
	return &Fault{Method: method, Code: code, Message: message}
}

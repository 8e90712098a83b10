package opensubtitles

import (
	"context"
	"errors"
	"net/rpc"
	"strings"
	"testing"
	"time"

	"subberthehut/internal/testsupport"
)

func newTestClient(t *testing.T, catalog *testsupport.Catalog) *Client {
	t.Helper()
	client, err := New(Config{Endpoint: catalog.Endpoint(), UserAgent: "subberthehut-test"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestLoginSendsCredentialsAndReturnsToken(t *testing.T) {
	catalog := testsupport.NewCatalog(t)
	client, err := New(Config{
		Endpoint:  catalog.Endpoint(),
		UserAgent: "agent/1.0",
		Username:  "alice",
		Password:  "secret",
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer client.Close()

	session, err := client.Login(context.Background())
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if session.Token != testsupport.CatalogToken {
		t.Fatalf("unexpected token %q", session.Token)
	}
	call, ok := catalog.LastCall("LogIn")
	if !ok {
		t.Fatal("expected LogIn call")
	}
	for _, want := range []string{"<string>alice</string>", "<string>secret</string>", "<string>en</string>", "<string>agent/1.0</string>"} {
		if !strings.Contains(call.Body, want) {
			t.Fatalf("LogIn body missing %s: %s", want, call.Body)
		}
	}
}

func TestSearchParsesHitsInResponseOrder(t *testing.T) {
	catalog := testsupport.NewCatalog(t)
	catalog.SetHits(
		testsupport.CatalogHit("101", MatchedByHash, "eng", "Movie.2020.BluRay", "movie.srt"),
		testsupport.CatalogHit("202", "fulltext", "ger", "Movie.2020.WEB", "movie.de.srt"),
	)
	client := newTestClient(t, catalog)

	queries := Queries(HashQuery("eng,ger", "abc", "1234"), NameQuery("eng,ger", "movie.mkv"))
	hits, err := client.Search(context.Background(), Session{Token: "tok"}, queries, 25)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].IDSubtitleFile != "101" || !hits[0].HashMatched() {
		t.Fatalf("unexpected first hit: %+v", hits[0])
	}
	if hits[1].IDSubtitleFile != "202" || hits[1].HashMatched() {
		t.Fatalf("unexpected second hit: %+v", hits[1])
	}
	if hits[1].SubFileName != "movie.de.srt" || hits[1].SubLanguageID != "ger" {
		t.Fatalf("unexpected second hit fields: %+v", hits[1])
	}

	call, _ := catalog.LastCall("SearchSubtitles")
	for _, want := range []string{
		"<string>tok</string>",
		"<name>moviehash</name><value><string>abc</string></value>",
		"<name>moviebytesize</name><value><string>1234</string></value>",
		"<name>query</name><value><string>movie.mkv</string></value>",
		"<name>sublanguageid</name><value><string>eng,ger</string></value>",
		"<name>limit</name><value><int>25</int></value>",
	} {
		if !strings.Contains(call.Body, want) {
			t.Fatalf("search body missing %s: %s", want, call.Body)
		}
	}
}

func TestSearchTreatsFalseDataAsNoHits(t *testing.T) {
	catalog := testsupport.NewCatalog(t)
	client := newTestClient(t, catalog)

	hits, err := client.Search(context.Background(), Session{Token: "tok"}, []Query{NameQuery("eng", "movie")}, 0)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected no hits, got %d", len(hits))
	}
	call, _ := catalog.LastCall("SearchSubtitles")
	if strings.Contains(call.Body, "<name>limit</name>") {
		t.Fatalf("limit should be omitted when zero: %s", call.Body)
	}
}

func TestSearchRequiresQueries(t *testing.T) {
	catalog := testsupport.NewCatalog(t)
	client := newTestClient(t, catalog)
	if _, err := client.Search(context.Background(), Session{}, nil, 10); err == nil {
		t.Fatal("expected error for empty query list")
	}
	if catalog.CallCount("SearchSubtitles") != 0 {
		t.Fatal("expected no remote call")
	}
}

func TestDownloadReturnsEncodedPayload(t *testing.T) {
	catalog := testsupport.NewCatalog(t)
	catalog.SetPayload("101", "H4sIAAAAAAAA")
	client := newTestClient(t, catalog)

	payload, err := client.Download(context.Background(), Session{Token: "tok"}, 101)
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if payload != "H4sIAAAAAAAA" {
		t.Fatalf("unexpected payload %q", payload)
	}
	call, _ := catalog.LastCall("DownloadSubtitles")
	if !strings.Contains(call.Body, "<value><int>101</int></value>") {
		t.Fatalf("file id not sent as an int array: %s", call.Body)
	}
	if strings.Contains(call.Body, "<string>101</string>") {
		t.Fatalf("file id sent as a string: %s", call.Body)
	}

	if _, err := client.Download(context.Background(), Session{Token: "tok"}, 999); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected malformed response for unknown id, got %v", err)
	}
	if _, err := client.Download(context.Background(), Session{Token: "tok"}, 0); err == nil {
		t.Fatal("expected error for invalid file id")
	}
}

func TestRemoteFaultCarriesCodeAndMessage(t *testing.T) {
	catalog := testsupport.NewCatalog(t)
	catalog.FailMethod("LogIn", 414, "Unknown User Agent")
	client := newTestClient(t, catalog)

	_, err := client.Login(context.Background())
	var fault *Fault
	if !errors.As(err, &fault) {
		t.Fatalf("expected Fault, got %T %v", err, err)
	}
	if fault.Code != 414 || fault.Message != "Unknown User Agent" || fault.Method != "LogIn" {
		t.Fatalf("unexpected fault: %+v", fault)
	}
}

func TestNonOKStatusIsFault(t *testing.T) {
	catalog := testsupport.NewCatalog(t)
	catalog.SetStatus("SearchSubtitles", "401 Unauthorized")
	client := newTestClient(t, catalog)

	_, err := client.Search(context.Background(), Session{Token: "tok"}, []Query{NameQuery("eng", "movie")}, 10)
	var fault *Fault
	if !errors.As(err, &fault) {
		t.Fatalf("expected Fault, got %v", err)
	}
	if fault.Code != 401 || fault.Message != "Unauthorized" {
		t.Fatalf("unexpected fault: %+v", fault)
	}
}

func TestLogout(t *testing.T) {
	catalog := testsupport.NewCatalog(t)
	client := newTestClient(t, catalog)
	if err := client.Logout(context.Background(), Session{Token: "tok"}); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if catalog.CallCount("LogOut") != 1 {
		t.Fatalf("expected one LogOut call, got %d", catalog.CallCount("LogOut"))
	}
}

type stalledCaller struct{}

func (stalledCaller) Go(method string, args any, reply any, done chan *rpc.Call) *rpc.Call {
	return &rpc.Call{ServiceMethod: method, Args: args, Reply: reply, Done: done}
}

func (stalledCaller) Close() error { return nil }

func TestCallHonoursContextCancellation(t *testing.T) {
	client := &Client{rpc: stalledCaller{}}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Login(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestParseFault(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
		wantMsg  string
		wantNil  bool
	}{
		{err: rpc.ServerError("Fault(503): Service Unavailable"), wantCode: 503, wantMsg: "Service Unavailable"},
		{err: rpc.ServerError("something odd"), wantMsg: "something odd"},
		{err: errors.New("dial tcp: refused"), wantNil: true},
	}
	for _, tt := range tests {
		fault := parseFault("M", tt.err)
		if tt.wantNil {
			if fault != nil {
				t.Fatalf("expected nil fault for %v", tt.err)
			}
			continue
		}
		if fault == nil || fault.Code != tt.wantCode || fault.Message != tt.wantMsg {
			t.Fatalf("parseFault(%v) = %+v", tt.err, fault)
		}
	}
}

func TestQueriesDropsEmptyAndDuplicates(t *testing.T) {
	queries := Queries(
		HashQuery("eng", "abc", "10"),
		NameQuery("eng", ""),
		HashQuery("eng", "abc", "10"),
		NameQuery("eng", " movie "),
	)
	if len(queries) != 2 {
		t.Fatalf("expected 2 queries, got %d: %+v", len(queries), queries)
	}
	if queries[1].Text != "movie" {
		t.Fatalf("expected trimmed text, got %q", queries[1].Text)
	}
}

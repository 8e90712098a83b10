package testsupport

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
)

// CatalogPath is the route the fake catalog serves XML-RPC on.
const CatalogPath = "/xml-rpc"

// CatalogToken is the session token handed out by the fake LogIn.
const CatalogToken = "test-token"

// CatalogCall records one XML-RPC request received by the fake catalog.
type CatalogCall struct {
	Method string
	Body   string
}

type catalogFault struct {
	code    int
	message string
}

// Catalog is an in-process XML-RPC server that answers LogIn,
// SearchSubtitles, DownloadSubtitles and LogOut the way the real catalog does,
// including the data=false reply for searches without hits.
type Catalog struct {
	Server *httptest.Server

	mu       sync.Mutex
	calls    []CatalogCall
	hits     []map[string]any
	payloads map[string]string
	faults   map[string]catalogFault
	statuses map[string]string
}

// NewCatalog starts the fake catalog and registers its shutdown.
func NewCatalog(t testing.TB) *Catalog {
	t.Helper()

	catalog := &Catalog{
		payloads: make(map[string]string),
		faults:   make(map[string]catalogFault),
		statuses: make(map[string]string),
	}
	router := mux.NewRouter()
	router.HandleFunc(CatalogPath, catalog.handle).Methods(http.MethodPost)
	catalog.Server = httptest.NewServer(router)
	t.Cleanup(catalog.Server.Close)
	return catalog
}

// Endpoint returns the XML-RPC URL of the fake catalog.
func (c *Catalog) Endpoint() string {
	return c.Server.URL + CatalogPath
}

// SetHits replaces the search results. No hits yields data=false.
func (c *Catalog) SetHits(hits ...map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits = hits
}

// SetPayload registers the encoded payload returned for a subtitle file id.
func (c *Catalog) SetPayload(fileID, encoded string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payloads[fileID] = encoded
}

// FailMethod makes method answer with an XML-RPC fault.
func (c *Catalog) FailMethod(method string, code int, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.faults[method] = catalogFault{code: code, message: message}
}

// SetStatus overrides the status member of method's reply.
func (c *Catalog) SetStatus(method, status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses[method] = status
}

// Calls returns a copy of the recorded requests.
func (c *Catalog) Calls() []CatalogCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]CatalogCall(nil), c.calls...)
}

// CallCount reports how many times method was invoked.
func (c *Catalog) CallCount(method string) int {
	count := 0
	for _, call := range c.Calls() {
		if call.Method == method {
			count++
		}
	}
	return count
}

// LastCall returns the most recent request for method.
func (c *Catalog) LastCall(method string) (CatalogCall, bool) {
	calls := c.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Method == method {
			return calls[i], true
		}
	}
	return CatalogCall{}, false
}

// CatalogHit builds a search hit member set.
func CatalogHit(fileID, matchedBy, language, release, fileName string) map[string]any {
	return map[string]any{
		"IDSubtitleFile":   fileID,
		"MatchedBy":        matchedBy,
		"SubLanguageID":    language,
		"LanguageName":     language,
		"MovieName":        release,
		"MovieReleaseName": release,
		"SubFileName":      fileName,
		"SubDownloadsCnt":  "7",
	}
}

func (c *Catalog) handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var call struct {
		MethodName string `xml:"methodName"`
	}
	if err := xml.Unmarshal(body, &call); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c.mu.Lock()
	c.calls = append(c.calls, CatalogCall{Method: call.MethodName, Body: string(body)})
	fault, failing := c.faults[call.MethodName]
	status, ok := c.statuses[call.MethodName]
	if !ok {
		status = "200 OK"
	}
	reply := map[string]any{"status": status}
	switch call.MethodName {
	case "LogIn":
		reply["token"] = CatalogToken
	case "SearchSubtitles":
		if len(c.hits) == 0 {
			reply["data"] = false
		} else {
			data := make([]any, 0, len(c.hits))
			for _, hit := range c.hits {
				data = append(data, hit)
			}
			reply["data"] = data
		}
	case "DownloadSubtitles":
		data := make([]any, 0, 1)
		for id, payload := range c.payloads {
			if strings.Contains(string(body), "<int>"+id+"</int>") || strings.Contains(string(body), "<i4>"+id+"</i4>") {
				data = append(data, map[string]any{"idsubtitlefile": id, "data": payload})
				break
			}
		}
		reply["data"] = data
	case "LogOut":
	default:
		failing = true
		fault = catalogFault{code: 404, message: "unknown method " + call.MethodName}
	}
	c.mu.Unlock()

	w.Header().Set("Content-Type", "text/xml")
	var out strings.Builder
	out.WriteString(`<?xml version="1.0" encoding="UTF-8"?><methodResponse>`)
	if failing {
		out.WriteString("<fault>")
		writeValue(&out, map[string]any{"faultCode": fault.code, "faultString": fault.message})
		out.WriteString("</fault>")
	} else {
		out.WriteString("<params><param>")
		writeValue(&out, reply)
		out.WriteString("</param></params>")
	}
	out.WriteString("</methodResponse>")
	_, _ = io.WriteString(w, out.String())
}

func writeValue(out *strings.Builder, value any) {
	out.WriteString("<value>")
	switch v := value.(type) {
	case string:
		out.WriteString("<string>")
		_ = xml.EscapeText(out, []byte(v))
		out.WriteString("</string>")
	case int:
		fmt.Fprintf(out, "<int>%d</int>", v)
	case bool:
		if v {
			out.WriteString("<boolean>1</boolean>")
		} else {
			out.WriteString("<boolean>0</boolean>")
		}
	case []any:
		out.WriteString("<array><data>")
		for _, item := range v {
			writeValue(out, item)
		}
		out.WriteString("</data></array>")
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		out.WriteString("<struct>")
		for _, key := range keys {
			out.WriteString("<member><name>")
			_ = xml.EscapeText(out, []byte(key))
			out.WriteString("</name>")
			writeValue(out, v[key])
			out.WriteString("</member>")
		}
		out.WriteString("</struct>")
	default:
		out.WriteString("<string>")
		_ = xml.EscapeText(out, []byte(fmt.Sprint(v)))
		out.WriteString("</string>")
	}
	out.WriteString("</value>")
}

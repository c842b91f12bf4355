package wikipedia

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const boliviaLangLinks = `{"batchcomplete":"","query":{"pages":{"3462":{"pageid":3462,"ns":0,"title":"Bolivia",
"langlinks":[{"lang":"de","*":"Bolivien"},{"lang":"es","*":"Bolivia"},{"lang":"no","*":"Bolivia"}]}}}}`

const missingPage = `{"batchcomplete":"","query":{"pages":{"-1":{"ns":0,"title":"Atlantis","missing":""}}}}`

const netherlandsParse = `{"parse":{"title":"Netherlands","pageid":21148,"wikitext":{"*":
"{{Short description|Country in Europe}}\n{{Infobox country\n| conventional_long_name = Kingdom of the Netherlands\n| capital = [[Amsterdam]]{{efn|Seat of government is [[The Hague]].}}\n| largest_city = capital\n}}\nThe '''Netherlands'''..."}}}`

const missingParse = `{"error":{"code":"missingtitle","info":"The page you specified doesn't exist."}}`

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "1", q.Get("redirects"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		switch q.Get("action") {
		case "query":
			assert.Equal(t, "langlinks", q.Get("prop"))
			assert.Equal(t, "max", q.Get("lllimit"))
			switch q.Get("titles") {
			case "Bolivia":
				_, _ = w.Write([]byte(boliviaLangLinks))
			default:
				_, _ = w.Write([]byte(missingPage))
			}
		case "parse":
			assert.Equal(t, "wikitext", q.Get("prop"))
			switch q.Get("page") {
			case "Netherlands":
				_, _ = w.Write([]byte(netherlandsParse))
			case "Broken":
				http.Error(w, "upstream failure", http.StatusBadGateway)
			default:
				_, _ = w.Write([]byte(missingParse))
			}
		default:
			http.Error(w, "bad action", http.StatusBadRequest)
		}
	}))
}

func newTestClient(url string) *Client {
	return NewClient(OptEndpoint(url), OptUserAgent("test-agent"), OptDelay(0))
}

func TestLangLinks(t *testing.T) {
	srv := testServer(t)
	defer srv.Close()
	c := newTestClient(srv.URL)

	links, err := c.LangLinks(context.Background(), "Bolivia")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"de": "Bolivien", "es": "Bolivia", "no": "Bolivia"}, links)

	_, err = c.LangLinks(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInfobox(t *testing.T) {
	srv := testServer(t)
	defer srv.Close()
	c := newTestClient(srv.URL)

	v, err := c.Infobox(context.Background(), "Netherlands", "capital")
	require.NoError(t, err)
	assert.Equal(t, "[[Amsterdam]]{{efn|Seat of government is [[The Hague]].}}", v)

	_, err = c.Infobox(context.Background(), "Netherlands", "anthem")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Infobox(context.Background(), "Atlantis", "capital")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Infobox(context.Background(), "Broken", "capital")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_Throttle(t *testing.T) {
	srv := testServer(t)
	defer srv.Close()
	c := NewClient(OptEndpoint(srv.URL), OptUserAgent("test-agent"), OptDelay(50*time.Millisecond))

	start := time.Now()
	for range 3 {
		_, err := c.LangLinks(context.Background(), "Bolivia")
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestClient_Cancelled(t *testing.T) {
	srv := testServer(t)
	defer srv.Close()
	c := newTestClient(srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.LangLinks(ctx, "Bolivia")
	assert.ErrorIs(t, err, context.Canceled)
}

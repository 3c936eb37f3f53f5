package bgg

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const goaXML = `<?xml version="1.0" encoding="utf-8"?>
<items termsofuse="https://boardgamegeek.com/xmlapi/termsofuse">
  <item type="boardgame" id="9216">
    <thumbnail>https://cf.geekdo-images.com/goa_t.jpg</thumbnail>
    <image>https://cf.geekdo-images.com/goa.jpg</image>
    <name type="alternate" sortindex="1" value="Goa: A New Expedition"/>
    <name type="primary" sortindex="1" value="Goa"/>
    <description>Trade and development in colonial India.</description>
    <yearpublished value="2004"/>
    <minplayers value="2"/>
    <maxplayers value="4"/>
    <playingtime value="90"/>
    <minplaytime value="90"/>
    <maxplaytime value="90"/>
    <minage value="12"/>
    <link type="boardgamecategory" id="1021" value="Economic"/>
    <link type="boardgamecategory" id="1001" value="Exploration"/>
    <link type="boardgamemechanic" id="2012" value="Auction/Bidding"/>
    <link type="boardgamedesigner" id="6" value="R&#252;diger Dorn"/>
    <link type="boardgameartist" id="1805" value="Marko Meyer"/>
    <link type="boardgamepublisher" id="9" value="Hans im Gl&#252;ck"/>
    <link type="boardgameexpansion" id="12345" value="Goa: Expansion"/>
    <statistics page="1">
      <ratings>
        <averageweight value="3.3717"/>
      </ratings>
    </statistics>
  </item>
</items>`

func TestProvider_FetchByID_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/thing" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("id"); got != "9216" {
			t.Errorf("id query param = %q, want %q", got, "9216")
		}
		if got := r.URL.Query().Get("stats"); got != "1" {
			t.Errorf("stats query param = %q, want %q", got, "1")
		}
		w.Header().Set("Content-Type", "text/xml")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(goaXML))
	}))
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, newTestLogger())
	result, err := p.FetchByID(context.Background(), 9216)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected non-nil result")
	}

	if result.BGGID != 9216 {
		t.Errorf("BGGID = %d, want 9216", result.BGGID)
	}

	// Primary name first, alternate after, regardless of document order.
	if len(result.Names) != 2 || result.Names[0] != "Goa" || result.Names[1] != "Goa: A New Expedition" {
		t.Errorf("Names = %v, want primary first", result.Names)
	}

	if result.Published != 2004 {
		t.Errorf("Published = %d, want 2004", result.Published)
	}
	if result.MinPlayers != 2 || result.MaxPlayers != 4 {
		t.Errorf("players = %d..%d, want 2..4", result.MinPlayers, result.MaxPlayers)
	}
	if result.MinPlayerAge != 12 {
		t.Errorf("MinPlayerAge = %d, want 12", result.MinPlayerAge)
	}
	if result.PlayTime != 90 || result.MinPlayTime != 90 || result.MaxPlayTime != 90 {
		t.Errorf("play time = %d/%d/%d, want 90/90/90", result.PlayTime, result.MinPlayTime, result.MaxPlayTime)
	}
	if result.Complexity != 3.3717 {
		t.Errorf("Complexity = %v, want 3.3717", result.Complexity)
	}

	if len(result.Categories) != 2 || result.Categories[0] != "Economic" {
		t.Errorf("Categories = %v", result.Categories)
	}
	if len(result.Mechanics) != 1 || result.Mechanics[0] != "Auction/Bidding" {
		t.Errorf("Mechanics = %v", result.Mechanics)
	}
	if len(result.Designers) != 1 || result.Designers[0] != "Rüdiger Dorn" {
		t.Errorf("Designers = %v", result.Designers)
	}
	if len(result.Artists) != 1 || result.Artists[0] != "Marko Meyer" {
		t.Errorf("Artists = %v", result.Artists)
	}
	if len(result.Publishers) != 1 || result.Publishers[0] != "Hans im Glück" {
		t.Errorf("Publishers = %v", result.Publishers)
	}
}

func TestProvider_FetchByID_NotFound(t *testing.T) {
	t.Parallel()

	// BGG answers an empty items element for unknown ids.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`<?xml version="1.0" encoding="utf-8"?><items termsofuse="x"/>`))
	}))
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, newTestLogger())
	result, err := p.FetchByID(context.Background(), 999999999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result for unknown id, got %+v", result)
	}
}

func TestProvider_FetchByID_RetriesOn5xx(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(goaXML))
	}))
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, newTestLogger())
	result, err := p.FetchByID(context.Background(), 9216)
	if err != nil {
		t.Fatalf("unexpected error after retry: %v", err)
	}
	if result == nil {
		t.Fatal("expected result from retry")
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestProvider_FetchByID_PersistentError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, newTestLogger())
	_, err := p.FetchByID(context.Background(), 9216)
	if err == nil {
		t.Fatal("expected error when upstream keeps failing")
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want exactly one retry", calls.Load())
	}
}

func TestProvider_FetchByID_MalformedXML(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"not":"xml"}`))
	}))
	defer srv.Close()

	p := NewProviderWithURL(srv.URL, newTestLogger())
	_, err := p.FetchByID(context.Background(), 9216)
	if err == nil {
		t.Fatal("expected decode error for malformed body")
	}
}

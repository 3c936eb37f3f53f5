package provider

// GameResult is the normalized game payload returned by an external game
// database adapter. It is shaped identically to the manual-input payload so
// the ingestion path does not care where a game came from.
type GameResult struct {
	BGGID        int64
	Names        []string
	Slug         string
	Published    int
	MinPlayers   int
	MaxPlayers   int
	MinPlayerAge int
	PlayTime     int
	MinPlayTime  int
	MaxPlayTime  int
	Description  string
	Thumbnail    string
	Image        string
	Complexity   float64
	Categories   []string
	Mechanics    []string
	Designers    []string
	Artists      []string
	Publishers   []string
}

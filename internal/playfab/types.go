package playfab

// Entry is one row of an upstream leaderboard page.
type Entry struct {
	PlayFabID   string         `json:"PlayFabId"`
	DisplayName string         `json:"DisplayName"`
	Position    int            `json:"Position"`
	StatValue   int64          `json:"StatValue"`
	Profile     *PlayerProfile `json:"Profile"`
}

// PlayerProfile is the nested profile PlayFab attaches to leaderboard entries
// when profile constraints request it.
type PlayerProfile struct {
	PlayerID      string          `json:"PlayerId"`
	DisplayName   string          `json:"DisplayName"`
	LinkedAccount []LinkedAccount `json:"LinkedAccounts"`
}

// LinkedAccount is one platform linkage on a player profile. Fields come back
// inconsistently populated depending on how the account was created.
type LinkedAccount struct {
	Platform       string `json:"Platform"`
	PlatformUserID string `json:"PlatformUserId"`
	Username       string `json:"Username"`
}

// Page is a successfully fetched leaderboard page. Version is the statistic
// version reported by the API, recorded for run auditing.
type Page struct {
	Entries []Entry
	Version int
}

type leaderboardRequest struct {
	StatisticName      string              `json:"StatisticName"`
	StartPosition      int                 `json:"StartPosition"`
	MaxResultsCount    int                 `json:"MaxResultsCount"`
	ProfileConstraints *profileConstraints `json:"ProfileConstraints,omitempty"`
}

type aroundPlayerRequest struct {
	StatisticName      string              `json:"StatisticName"`
	PlayFabID          string              `json:"PlayFabId"`
	MaxResultsCount    int                 `json:"MaxResultsCount"`
	ProfileConstraints *profileConstraints `json:"ProfileConstraints,omitempty"`
}

type profileConstraints struct {
	ShowDisplayName    bool `json:"ShowDisplayName"`
	ShowLinkedAccounts bool `json:"ShowLinkedAccounts"`
}

type apiResponse struct {
	Code   int       `json:"code"`
	Status string    `json:"status"`
	Data   *pageData `json:"data"`
}

type pageData struct {
	Leaderboard []Entry `json:"Leaderboard"`
	Version     int     `json:"Version"`
}

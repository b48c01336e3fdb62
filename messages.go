package server

// JoinResponse is the payload returned by the join endpoint.
type JoinResponse struct {
	Ver     int         `json:"ver"`
	ID      string      `json:"id"`
	Players []Player    `json:"players"`
	Agents  []Agent     `json:"agents"`
	Objects []Object    `json:"objects"`
	Config  WorldConfig `json:"config"`
}

type stateMessage struct {
	Ver        int      `json:"ver"`
	Type       string   `json:"type"`
	Players    []Player `json:"players"`
	Agents     []Agent  `json:"agents"`
	Tick       uint64   `json:"t"`
	ServerTime int64    `json:"serverTime"`
}

type diagnosticsPlayer struct {
	Ver           int    `json:"ver"`
	ID            string `json:"id"`
	LastHeartbeat int64  `json:"lastHeartbeat"`
	RTTMillis     int64  `json:"rttMillis"`
}

type diagnosticsAgent struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Task    string `json:"task"`
	Waiting bool   `json:"waiting"`
}

// DiagnosticsReport summarizes live server state for the diagnostics
// endpoint.
type DiagnosticsReport struct {
	Tick           uint64              `json:"tick"`
	Players        []diagnosticsPlayer `json:"players"`
	Agents         []diagnosticsAgent  `json:"agents"`
	DirectiveQueue int                 `json:"directiveQueue"`
	DirectiveMode  string              `json:"directiveMode"`
}

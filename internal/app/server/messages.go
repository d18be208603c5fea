package server

// Lobby commands, matching the desktop client protocol.
const (
	cmdLogin      = 1
	cmdRegister   = 2
	cmdTopPlayers = 3
	cmdCreateRoom = 4
	cmdListRooms  = 5
	cmdJoinRoom   = 6
)

// In-room operations.
const (
	opMove          = 1
	opPossibleMoves = 2
	opForfeit       = 3
)

// request is the single decoded shape for everything a client sends.
// Which fields matter depends on command/operation.
type request struct {
	Command   int `json:"command"`
	Operation int `json:"operation"`

	Username string `json:"username"`
	Password string `json:"password"`
	UserID   int    `json:"user_id"`

	CreateRoom int `json:"create_room"`
	RoomNumber int `json:"room_number"`

	ClientNumber  int    `json:"client_number"`
	SelectedPiece [2]int `json:"selected_piece"`
	Row           int    `json:"row"`
	Col           int    `json:"col"`
}

type statusResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message,omitempty"`
}

type authResponse struct {
	Status  bool   `json:"status"`
	UserID  int    `json:"user_id,omitempty"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}

type roomResponse struct {
	Status       bool `json:"status"`
	ClientNumber int  `json:"client_number"`
	RoomNumber   int  `json:"room_number"`
}

type roomInfo struct {
	RoomID      int    `json:"room_id"`
	Creator     string `json:"creator"`
	PlayerCount int    `json:"player_count"`
}

type roomListResponse struct {
	Status  bool       `json:"status"`
	Message []roomInfo `json:"message"`
}

type topPlayersResponse struct {
	Status  bool     `json:"status"`
	Message []string `json:"message"`
}

// boardResponse is broadcast to both seats after every accepted move.
// GameStatus: 0 ongoing, 1 side A won, 2 side B won.
type boardResponse struct {
	Pieces       [8][8]int `json:"pieces"`
	ContinueStep bool      `json:"continue_step"`
	GameStatus   int       `json:"game_status"`
}

type resultResponse struct {
	WinnerUsername string `json:"winner_username"`
	GameStatus     int    `json:"game_status"`
}

type possibleMovesResponse struct {
	PossibleMoves [][2]int `json:"possible_moves"`
}

type errorResponse struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

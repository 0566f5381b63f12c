package models

type GameID string

const (
	GameCrash     GameID = "crash"
	GameDice      GameID = "dice"
	GameBlackjack GameID = "blackjack"
	GamePlinko    GameID = "plinko"
	GameMines     GameID = "mines"
	GameCases     GameID = "cases"
)

// Games lists every playable game, in the order stat rows are created.
var Games = []GameID{GameCrash, GameDice, GameBlackjack, GamePlinko, GameMines, GameCases}

func ValidGame(id GameID) bool {
	for _, g := range Games {
		if g == id {
			return true
		}
	}
	return false
}

// GameStat is the per-user, per-game play record.
// Invariant: Played == Won + Lost after every update.
type GameStat struct {
	UserID int64  `json:"user_id" db:"user_id"`
	Game   GameID `json:"game" db:"game"`
	Played int64  `json:"played" db:"played"`
	Won    int64  `json:"won" db:"won"`
	Lost   int64  `json:"lost" db:"lost"`
}

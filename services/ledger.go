package services

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/ten-ki/proto-games/config"
	"github.com/ten-ki/proto-games/game"
	"github.com/ten-ki/proto-games/models"
	"github.com/ten-ki/proto-games/utils/logger"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

// Wallet is the ledger surface the transport and REST layers consume.
// LedgerService implements it against gorm; tests substitute it.
type Wallet interface {
	game.Ledger
	EnsureUser(name, accountID string) (*models.User, error)
	Debit(name, accountID string, amount int64) error
	Credit(name, accountID string, amount int64)
	SaveChat(room, sender, text string)
	PruneChat(keep int)
	TopUsers(n int) ([]models.User, error)
}

// LedgerService owns the persistent wealth records. Rooms touch it from
// their own goroutines, so every write path serializes on mu; result
// writes are fire-and-forget so a slow database never stalls a game.
type LedgerService struct {
	db          *gorm.DB
	mu          sync.Mutex
	reliefFloor int64
	reliefTopUp int64
}

func NewLedgerService(db *gorm.DB, settings *config.Settings) *LedgerService {
	return &LedgerService{
		db:          db,
		reliefFloor: settings.ReliefFloor,
		reliefTopUp: settings.ReliefTopUp,
	}
}

// find prefers the account id as ledger key and falls back to the
// display name.
func (l *LedgerService) find(name, accountID string) (*models.User, error) {
	var user models.User
	q := l.db.Where("name = ?", name)
	if accountID != "" {
		q = l.db.Where("account_id = ?", accountID)
	}
	if err := q.First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// EnsureUser fetches or creates the ledger record. New accounts start at
// the relief top-up amount.
func (l *LedgerService) EnsureUser(name, accountID string) (*models.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	user, err := l.find(name, accountID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	user = &models.User{Name: name, AccountID: accountID, Wealth: l.reliefTopUp}
	if err := l.db.Create(user).Error; err != nil {
		return nil, err
	}
	logger.Infof("[Ledger] created user %s (wealth=%d)", name, user.Wealth)
	return user, nil
}

// Debit takes a buy-in. Relief fires first when wealth sits below the
// floor, then the join is refused if the balance still cannot cover it.
func (l *LedgerService) Debit(name, accountID string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	user, err := l.find(name, accountID)
	if err != nil {
		return err
	}
	l.applyRelief(user)
	if user.Wealth < amount {
		return ErrInsufficientFunds
	}
	user.Wealth -= amount
	return l.db.Save(user).Error
}

// Credit returns chips to the wallet (join rollback path).
func (l *LedgerService) Credit(name, accountID string, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	user, err := l.find(name, accountID)
	if err != nil {
		logger.Errorf("[Ledger] credit lookup failed for %s: %v", name, err)
		return
	}
	user.Wealth += amount
	if err := l.db.Save(user).Error; err != nil {
		logger.Errorf("[Ledger] credit save failed for %s: %v", name, err)
	}
}

func (l *LedgerService) applyRelief(user *models.User) {
	if user.Wealth >= l.reliefFloor {
		return
	}
	logger.Infof("[Ledger] relief for %s: %d -> %d", user.Name, user.Wealth, l.reliefTopUp)
	user.Wealth = l.reliefTopUp
}

// Reconcile implements game.Ledger. Wealth-backed scores flow back into
// the wallet; every game folds the net result into the cumulative score.
// Runs detached: gameplay never waits on the database.
func (l *LedgerService) Reconcile(e game.ReconcileEntry) {
	go func() {
		l.mu.Lock()
		defer l.mu.Unlock()

		user, err := l.find(e.Name, e.AccountID)
		if err != nil {
			logger.Errorf("[Ledger] reconcile lookup failed for %s: %v", e.Name, err)
			return
		}
		if e.WealthBacked {
			user.Wealth += e.Score
		}
		user.CumulativeScore += e.Score - e.Initial
		l.applyRelief(user)
		if err := l.db.Save(user).Error; err != nil {
			logger.Errorf("[Ledger] reconcile save failed for %s: %v", e.Name, err)
		}
	}()
}

// RecordMatch implements game.Ledger; best-effort history insert.
func (l *LedgerService) RecordMatch(roomID, gameType, winner string, scores map[string]int64) {
	go func() {
		payload, err := json.Marshal(scores)
		if err != nil {
			logger.Errorf("[Ledger] marshal scores for room %s: %v", roomID, err)
			return
		}
		result := models.MatchResult{
			RoomID:     roomID,
			GameType:   gameType,
			Winner:     winner,
			ScoresJSON: datatypes.JSON(payload),
			FinishedAt: time.Now(),
		}
		if err := l.db.Create(&result).Error; err != nil {
			logger.Errorf("[Ledger] record match for room %s: %v", roomID, err)
		}
	}()
}

// SaveChat persists one chat line, fire-and-forget.
func (l *LedgerService) SaveChat(room, sender, text string) {
	go func() {
		msg := models.ChatMessage{Room: room, Sender: sender, Text: text}
		if err := l.db.Create(&msg).Error; err != nil {
			logger.Errorf("[Ledger] save chat for room %s: %v", room, err)
		}
	}()
}

// PruneChat keeps only the most recent rows per room; called from the
// snapshot loop.
func (l *LedgerService) PruneChat(keep int) {
	err := l.db.Exec(`DELETE FROM chat_messages WHERE id NOT IN (
		SELECT id FROM (
			SELECT id, ROW_NUMBER() OVER (PARTITION BY room ORDER BY id DESC) AS rn
			FROM chat_messages
		) ranked WHERE rn <= ?)`, keep).Error
	if err != nil {
		logger.Errorf("[Ledger] prune chat: %v", err)
	}
}

// TopUsers returns the leaderboard ranking by cumulative score.
func (l *LedgerService) TopUsers(n int) ([]models.User, error) {
	var users []models.User
	err := l.db.Order("cumulative_score DESC").Limit(n).Find(&users).Error
	return users, err
}

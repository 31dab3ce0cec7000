package storage

import (
	"context"
	"time"

	"smrutimap/models/postgres"

	"gorm.io/gorm"
)

const defaultOpTimeout = 5 * time.Second

type gormRepository struct {
	db        *gorm.DB
	opTimeout time.Duration
}

// NewRepository wraps a connected gorm DB. The same implementation backs
// production Postgres and the sqlite databases used in tests.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db, opTimeout: defaultOpTimeout}
}

func (r *gormRepository) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.opTimeout)
}

// --- Catalog ---

func (r *gormRepository) ListImages(ctx context.Context) ([]postgres.HistoricalImage, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var images []postgres.HistoricalImage
	if err := r.db.WithContext(ctx).Order("id").Find(&images).Error; err != nil {
		return nil, classify(err)
	}
	return images, nil
}

func (r *gormRepository) ImagesByIDs(ctx context.Context, ids []string) ([]postgres.HistoricalImage, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var images []postgres.HistoricalImage
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&images).Error; err != nil {
		return nil, classify(err)
	}
	return images, nil
}

// --- Rooms ---

func (r *gormRepository) CreateRoom(ctx context.Context, room *postgres.GameRoom) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()
	return classify(r.db.WithContext(ctx).Create(room).Error)
}

func (r *gormRepository) RoomByCode(ctx context.Context, code string) (*postgres.GameRoom, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var room postgres.GameRoom
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&room).Error; err != nil {
		return nil, classify(err)
	}
	return &room, nil
}

func (r *gormRepository) UpdateRoomGuarded(ctx context.Context, code string, guard map[string]interface{}, updates map[string]interface{}) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	tx := r.db.WithContext(ctx).Model(&postgres.GameRoom{}).Where("code = ?", code)
	for col, want := range guard {
		tx = tx.Where(col+" = ?", want)
	}
	res := tx.Updates(updates)
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the room is gone or a guard column moved under us.
		var room postgres.GameRoom
		if err := r.db.WithContext(ctx).Where("code = ?", code).First(&room).Error; err != nil {
			return classify(err)
		}
		return ErrStale
	}
	return nil
}

func (r *gormRepository) ActiveTimedRooms(ctx context.Context) ([]postgres.GameRoom, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var rooms []postgres.GameRoom
	err := r.db.WithContext(ctx).
		Where("status = ? AND time_per_round > 0 AND round_started_at IS NOT NULL", "playing").
		Find(&rooms).Error
	if err != nil {
		return nil, classify(err)
	}
	return rooms, nil
}

func (r *gormRepository) DailyRoomForPlayer(ctx context.Context, playerKey, dailyKey string) (*postgres.GameRoom, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var room postgres.GameRoom
	err := r.db.WithContext(ctx).
		Where("host_key = ? AND daily_key = ? AND mode = ?", playerKey, dailyKey, "daily").
		Order("created_at ASC").
		First(&room).Error
	if err != nil {
		return nil, classify(err)
	}
	return &room, nil
}

func (r *gormRepository) IdleRoomsBefore(ctx context.Context, cutoff time.Time) ([]postgres.GameRoom, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var rooms []postgres.GameRoom
	err := r.db.WithContext(ctx).
		Where("status <> ? AND updated_at < ?", "finished", cutoff).
		Find(&rooms).Error
	if err != nil {
		return nil, classify(err)
	}
	return rooms, nil
}

// --- Participants ---

func (r *gormRepository) AddParticipant(ctx context.Context, p *postgres.RoomParticipant) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()
	return classify(r.db.WithContext(ctx).Create(p).Error)
}

func (r *gormRepository) ParticipantsByRoom(ctx context.Context, code string) ([]postgres.RoomParticipant, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var participants []postgres.RoomParticipant
	err := r.db.WithContext(ctx).
		Where("room_code = ?", code).
		Order("joined_at ASC, id ASC").
		Find(&participants).Error
	if err != nil {
		return nil, classify(err)
	}
	return participants, nil
}

func (r *gormRepository) ParticipantByKey(ctx context.Context, code, playerKey string) (*postgres.RoomParticipant, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var p postgres.RoomParticipant
	err := r.db.WithContext(ctx).
		Where("room_code = ? AND player_key = ?", code, playerKey).
		First(&p).Error
	if err != nil {
		return nil, classify(err)
	}
	return &p, nil
}

func (r *gormRepository) UpdateParticipant(ctx context.Context, code, playerKey string, updates map[string]interface{}) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&postgres.RoomParticipant{}).
		Where("room_code = ? AND player_key = ?", code, playerKey).
		Updates(updates)
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormRepository) OpenRoomCodesForPlayer(ctx context.Context, playerKey string) ([]string, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var codes []string
	err := r.db.WithContext(ctx).Model(&postgres.RoomParticipant{}).
		Joins("JOIN game_rooms ON game_rooms.code = room_participants.room_code").
		Where("room_participants.player_key = ? AND room_participants.status <> ?", playerKey, "disconnected").
		Where("game_rooms.status <> ?", "finished").
		Pluck("room_participants.room_code", &codes).Error
	if err != nil {
		return nil, classify(err)
	}
	return codes, nil
}

// --- Scores ---

func (r *gormRepository) InsertScore(ctx context.Context, s *postgres.RoundScore) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()
	return classify(r.db.WithContext(ctx).Create(s).Error)
}

func (r *gormRepository) ScoreByKey(ctx context.Context, code, playerKey string, round int) (*postgres.RoundScore, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var s postgres.RoundScore
	err := r.db.WithContext(ctx).
		Where("room_code = ? AND player_key = ? AND round_number = ?", code, playerKey, round).
		First(&s).Error
	if err != nil {
		return nil, classify(err)
	}
	return &s, nil
}

func (r *gormRepository) ScoresByRoom(ctx context.Context, code string) ([]postgres.RoundScore, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var scores []postgres.RoundScore
	err := r.db.WithContext(ctx).
		Where("room_code = ?", code).
		Order("round_number ASC, submitted_at ASC, id ASC").
		Find(&scores).Error
	if err != nil {
		return nil, classify(err)
	}
	return scores, nil
}

func (r *gormRepository) ScoresByRoomRound(ctx context.Context, code string, round int) ([]postgres.RoundScore, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var scores []postgres.RoundScore
	err := r.db.WithContext(ctx).
		Where("room_code = ? AND round_number = ?", code, round).
		Order("submitted_at ASC, id ASC").
		Find(&scores).Error
	if err != nil {
		return nil, classify(err)
	}
	return scores, nil
}

func (r *gormRepository) DailyTotals(ctx context.Context, dailyKey string, limit int) ([]DailyTotal, error) {
	if limit <= 0 {
		limit = 50
	}
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var rows []DailyTotal
	err := r.db.WithContext(ctx).Table("round_scores").
		Select("round_scores.player_key AS player_key, "+
			"room_participants.display_name AS display_name, "+
			"SUM(round_scores.total_score) AS total_score, "+
			"COUNT(round_scores.id) AS rounds_played").
		Joins("JOIN game_rooms ON game_rooms.code = round_scores.room_code").
		Joins("JOIN room_participants ON room_participants.room_code = round_scores.room_code "+
			"AND room_participants.player_key = round_scores.player_key").
		Where("game_rooms.mode = ? AND game_rooms.daily_key = ?", "daily", dailyKey).
		Group("round_scores.player_key, room_participants.display_name").
		Order("total_score DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, classify(err)
	}
	return rows, nil
}

// --- Image pools ---

func (r *gormRepository) PoolByKey(ctx context.Context, playerKey string) (*postgres.ImagePool, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var pool postgres.ImagePool
	if err := r.db.WithContext(ctx).Where("player_key = ?", playerKey).First(&pool).Error; err != nil {
		return nil, classify(err)
	}
	return &pool, nil
}

func (r *gormRepository) CreatePool(ctx context.Context, pool *postgres.ImagePool) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()
	return classify(r.db.WithContext(ctx).Create(pool).Error)
}

func (r *gormRepository) SavePoolCAS(ctx context.Context, pool *postgres.ImagePool, expectedVersion int) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&postgres.ImagePool{}).
		Where("player_key = ? AND version = ?", pool.PlayerKey, expectedVersion).
		Updates(map[string]interface{}{
			"available_ids": pool.AvailableIDs,
			"used_ids":      pool.UsedIDs,
			"total_images":  pool.TotalImages,
			"version":       expectedVersion + 1,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStale
	}
	pool.Version = expectedVersion + 1
	return nil
}

func (r *gormRepository) DeletePool(ctx context.Context, playerKey string) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Where("player_key = ?", playerKey).Delete(&postgres.ImagePool{})
	if res.Error != nil {
		return classify(res.Error)
	}
	return nil
}

// --- Users ---

func (r *gormRepository) CreateUser(ctx context.Context, u *postgres.User) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()
	return classify(r.db.WithContext(ctx).Create(u).Error)
}

func (r *gormRepository) UserByUsername(ctx context.Context, username string) (*postgres.User, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var u postgres.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, classify(err)
	}
	return &u, nil
}

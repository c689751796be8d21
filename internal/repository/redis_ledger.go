package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/metinatakli/seat-reservation-engine/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Every ledger key carries the {ledger} hash tag so a batch touching several
// showtimes stays in one cluster slot, as the CAS script requires.
const (
	ledgerHoldsKey  = "{ledger}:holds"
	ledgerExpiryKey = "{ledger}:expiry"

	casArgsPerTransition = 6
)

// casScript checks every expected version before writing anything, so a batch
// is applied entirely or not at all.
var casScript = redis.NewScript(`
    -- KEYS = [holds hash, expiry zset, showtime hash per transition...]
    -- ARGV = per transition: field, expected version, record json, hold id, expiry score, member

    local holds = KEYS[1]
    local expiry = KEYS[2]
    local n = #KEYS - 2

    for i = 1, n do
        local base = (i - 1) * 6
        local current = redis.call("HGET", KEYS[i + 2], ARGV[base + 1])
        local version = 0
        if current then
            version = tonumber(cjson.decode(current).version)
        end
        if version ~= tonumber(ARGV[base + 2]) then
            return 0
        end
    end

    for i = 1, n do
        local base = (i - 1) * 6
        local current = redis.call("HGET", KEYS[i + 2], ARGV[base + 1])
        if current then
            local previous = cjson.decode(current)
            if previous.holdId then
                redis.call("HDEL", holds, previous.holdId)
            end
        end

        redis.call("HSET", KEYS[i + 2], ARGV[base + 1], ARGV[base + 3])

        if ARGV[base + 4] ~= "" then
            redis.call("HSET", holds, ARGV[base + 4], ARGV[base + 6])
        end

        if ARGV[base + 5] ~= "" then
            redis.call("ZADD", expiry, ARGV[base + 5], ARGV[base + 6])
        else
            redis.call("ZREM", expiry, ARGV[base + 6])
        end
    end

    return 1
`)

// RedisLedger keeps one hash per showtime mapping seat IDs to JSON records,
// a hash from hold ID to seat key and a sorted set of hold expiries.
type RedisLedger struct {
	client redis.UniversalClient
}

func NewRedisLedger(client redis.UniversalClient) *RedisLedger {
	return &RedisLedger{
		client: client,
	}
}

func showtimeLedgerKey(showtimeID int) string {
	return fmt.Sprintf("{ledger}:showtime:%d", showtimeID)
}

func (l *RedisLedger) Get(ctx context.Context, key domain.SeatKey) (domain.SeatRecord, error) {
	raw, err := l.client.HGet(ctx, showtimeLedgerKey(key.ShowtimeID), strconv.Itoa(key.SeatID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.SeatRecord{Key: key, State: domain.Open{}}, nil
		}

		return domain.SeatRecord{}, err
	}

	return decodeLedgerRecord(key, raw)
}

func (l *RedisLedger) GetByHoldID(ctx context.Context, holdID string) (domain.SeatRecord, error) {
	member, err := l.client.HGet(ctx, ledgerHoldsKey, holdID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.SeatRecord{}, domain.ErrHoldNotFound
		}

		return domain.SeatRecord{}, err
	}

	key, err := domain.ParseSeatKey(member)
	if err != nil {
		return domain.SeatRecord{}, err
	}

	record, err := l.Get(ctx, key)
	if err != nil {
		return domain.SeatRecord{}, err
	}

	// The index and the record are written by the same script, but a read can
	// still straddle two transitions.
	if record.HoldID() != holdID {
		return domain.SeatRecord{}, domain.ErrHoldNotFound
	}

	return record, nil
}

func (l *RedisLedger) ListByShowtime(ctx context.Context, showtimeID int) ([]domain.SeatRecord, error) {
	fields, err := l.client.HGetAll(ctx, showtimeLedgerKey(showtimeID)).Result()
	if err != nil {
		return nil, err
	}

	records := make([]domain.SeatRecord, 0, len(fields))

	for field, raw := range fields {
		seatID, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid seat field %q in showtime %d: %w", field, showtimeID, err)
		}

		record, err := decodeLedgerRecord(domain.SeatKey{ShowtimeID: showtimeID, SeatID: seatID}, []byte(raw))
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, nil
}

func (l *RedisLedger) ListExpired(ctx context.Context, now time.Time, limit int) ([]domain.SeatRecord, error) {
	members, err := l.client.ZRangeArgs(ctx, redis.ZRangeArgs{
		Key:     ledgerExpiryKey,
		Start:   "-inf",
		Stop:    strconv.FormatInt(now.UnixMilli(), 10),
		ByScore: true,
		Count:   int64(limit),
	}).Result()
	if err != nil {
		return nil, err
	}

	if len(members) == 0 {
		return nil, nil
	}

	keys := make([]domain.SeatKey, len(members))
	cmds := make([]*redis.StringCmd, len(members))

	pipe := l.client.Pipeline()

	for i, member := range members {
		keys[i], err = domain.ParseSeatKey(member)
		if err != nil {
			return nil, err
		}

		cmds[i] = pipe.HGet(ctx, showtimeLedgerKey(keys[i].ShowtimeID), strconv.Itoa(keys[i].SeatID))
	}

	_, err = pipe.Exec(ctx)
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	records := make([]domain.SeatRecord, 0, len(members))

	for i, cmd := range cmds {
		raw, err := cmd.Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}

			return nil, err
		}

		record, err := decodeLedgerRecord(keys[i], raw)
		if err != nil {
			return nil, err
		}

		if held, ok := record.State.(domain.Held); ok && held.ExpiredAt(now) {
			records = append(records, record)
		}
	}

	return records, nil
}

func (l *RedisLedger) CompareAndSet(ctx context.Context, t domain.Transition) (bool, error) {
	return l.CompareAndSetBatch(ctx, []domain.Transition{t})
}

func (l *RedisLedger) CompareAndSetBatch(ctx context.Context, ts []domain.Transition) (bool, error) {
	if len(ts) == 0 {
		return true, nil
	}

	keys := make([]string, 0, len(ts)+2)
	keys = append(keys, ledgerHoldsKey, ledgerExpiryKey)

	args := make([]any, 0, len(ts)*casArgsPerTransition)

	for _, t := range ts {
		rec := newLedgerRecord(t.Next, t.ExpectedVersion+1)

		raw, err := json.Marshal(rec)
		if err != nil {
			return false, err
		}

		var holdID, score string
		if held, ok := t.Next.(domain.Held); ok {
			holdID = held.HoldID
			score = strconv.FormatInt(held.ExpiresAt.UnixMilli(), 10)
		} else if rec.HoldID != nil {
			holdID = *rec.HoldID
		}

		keys = append(keys, showtimeLedgerKey(t.Key.ShowtimeID))
		args = append(args,
			strconv.Itoa(t.Key.SeatID),
			t.ExpectedVersion,
			string(raw),
			holdID,
			score,
			t.Key.String(),
		)
	}

	applied, err := casScript.Run(ctx, l.client, keys, args...).Int()
	if err != nil {
		return false, err
	}

	return applied == 1, nil
}

func decodeLedgerRecord(key domain.SeatKey, raw []byte) (domain.SeatRecord, error) {
	var rec ledgerRecord

	err := json.Unmarshal(raw, &rec)
	if err != nil {
		return domain.SeatRecord{}, fmt.Errorf("decode seat %s: %w", key, err)
	}

	return rec.toSeatRecord(key)
}

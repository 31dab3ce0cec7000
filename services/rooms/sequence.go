package rooms

import (
	"encoding/json"
	"hash/fnv"
	"log"
	mrand "math/rand"
	"sort"

	"gorm.io/datatypes"
)

func encodeSequence(ids []string) (datatypes.JSON, error) {
	b, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// decodeSequence tolerates corrupt payloads: an empty sequence simply ends
// the game at the next advance instead of wedging the room.
func decodeSequence(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		log.Printf("[ROOM-REPAIR] corrupt image sequence, treating as empty: %v", err)
		return nil
	}
	return ids
}

// dailySequence derives the image order for one calendar day from the date
// key alone, so every player who starts that day's challenge faces the same
// images in the same order, on any backend instance.
func dailySequence(dailyKey string, catalogIDs []string, rounds int) []string {
	ids := make([]string, len(catalogIDs))
	copy(ids, catalogIDs)
	sort.Strings(ids)

	h := fnv.New64a()
	h.Write([]byte(dailyKey))
	r := mrand.New(mrand.NewSource(int64(h.Sum64())))
	r.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})

	if rounds < len(ids) {
		ids = ids[:rounds]
	}
	return ids
}

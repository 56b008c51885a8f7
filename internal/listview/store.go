package listview

import "errors"

// loadに複数テナントのレコードが混ざっていた
var ErrTenantMismatch = errors.New("records span multiple tenants")

// Storeは1テナント分のレコードのローカルコピーを保持する。
// フェッチ成功のたびにLoadで総入れ替えし、単発の作成/更新/削除の成功後は
// Upsert/Removeで1件だけ反映する（再フェッチしない）。
type Store[T Record] struct {
	byID  map[string]T
	order []string // 挿入順。サジェストの並びを決定的にするために保持する。
}

func NewStore[T Record]() *Store[T] {
	return &Store[T]{byID: map[string]T{}}
}

// Loadは中身を総入れ替えする。
// 複数テナントが混ざっていたらErrTenantMismatchを返し、ストアは変更しない。
func (s *Store[T]) Load(records []T) error {
	tenant := ""
	for _, rec := range records {
		t := rec.RecordTenantID()
		if tenant == "" {
			tenant = t
			continue
		}
		if t != tenant {
			return ErrTenantMismatch
		}
	}

	byID := make(map[string]T, len(records))
	order := make([]string, 0, len(records))
	for _, rec := range records {
		id := rec.RecordID()
		if _, dup := byID[id]; !dup {
			order = append(order, id)
		}
		byID[id] = rec
	}

	s.byID = byID
	s.order = order
	return nil
}

// Upsertは1件を挿入または置換する。
func (s *Store[T]) Upsert(rec T) {
	id := rec.RecordID()
	if _, ok := s.byID[id]; !ok {
		s.order = append(s.order, id)
	}
	s.byID[id] = rec
}

// Removeは1件を削除する。存在しなければ何もしない（エラーにしない）。
func (s *Store[T]) Remove(id string) {
	if _, ok := s.byID[id]; !ok {
		return
	}
	delete(s.byID, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Allは全件を挿入順で返す。並び替えは呼び出し側（Filter）が行う。
func (s *Store[T]) All() []T {
	out := make([]T, 0, len(s.byID))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

func (s *Store[T]) Len() int {
	return len(s.byID)
}

package usecase

import (
	"sync"

	"app/internal/listview"
)

// listSessionは1マーチャント×1画面分のエンジンとそのロック。
// エンジン自体は同期・ロックなしなので、ホスト側（ここ）で直列化する。
type listSession[T listview.Record] struct {
	mu     sync.Mutex
	engine *listview.Engine[T]
}

// listSessionsは画面種別ごとのセッション置き場。マーチャントIDがキー。
type listSessions[T listview.Record] struct {
	mu       sync.Mutex
	sessions map[string]*listSession[T]
}

func newListSessions[T listview.Record]() *listSessions[T] {
	return &listSessions[T]{sessions: map[string]*listSession[T]{}}
}

// getOrCreateはセッションを返す。なければnewOptionsで設定を解決して作る
// （設定のDB読みはセッション初回だけ）。
func (s *listSessions[T]) getOrCreate(merchantID string, newOptions func() (listview.Options, error)) (*listSession[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[merchantID]; ok {
		return sess, nil
	}

	opts, err := newOptions()
	if err != nil {
		return nil, err
	}
	sess := &listSession[T]{engine: listview.NewEngine[T](opts)}
	s.sessions[merchantID] = sess
	return sess, nil
}

// 既存セッションがあれば返す（なくても作らない）。
// 変更成功後の反映に使う: セッションが無いなら反映する相手もいない。
func (s *listSessions[T]) get(merchantID string) (*listSession[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[merchantID]
	return sess, ok
}

// dropはセッションを破棄する。設定変更などでエンジンの前提が変わったとき、
// 次のアクセスで作り直させる。
func (s *listSessions[T]) drop(merchantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, merchantID)
}

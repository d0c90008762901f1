package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/yoonbit/dramatalk/internal/core"
)

// immediateScheduler fires every callback synchronously.
type immediateScheduler struct {
	entities []string
}

func (s *immediateScheduler) ScheduleAt(at time.Time, entityID string, fn func()) func() {
	s.entities = append(s.entities, entityID)
	fn()
	return func() {}
}

func TestRespondLater(t *testing.T) {
	personas := stubPersonas{"kim_shin": testPersona("kim_shin", "김신")}
	gen := &scriptedGen{texts: []string{"일기 잘 읽었소."}}
	e := newTestEngine(gen, &stubStore{}, personas)

	sched := &immediateScheduler{}
	var delivered *core.Reply
	e.RespondLater(sched, time.Now().Add(time.Hour), ChatRequest{
		ConversationID: "c1",
		CharacterID:    "kim_shin",
		UserText:       "오늘 일기",
	}, func(r *core.Reply) { delivered = r })

	if len(sched.entities) != 1 || sched.entities[0] != "c1" {
		t.Errorf("scheduled entities = %v", sched.entities)
	}
	if delivered == nil {
		t.Fatal("reply was not delivered")
	}
	if !strings.Contains(delivered.Texts[0], "일기 잘 읽었소") {
		t.Errorf("reply = %v", delivered.Texts)
	}
}

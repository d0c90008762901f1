package engine

import (
	"context"
	"time"

	"github.com/yoonbit/dramatalk/internal/core"
	"github.com/yoonbit/dramatalk/internal/schedule"
)

// RespondLater schedules a reply to be generated at a later time and
// handed to deliver. This is the contract diary-style features call
// into; the engine itself knows nothing about diaries. The returned
// cancel function withdraws the reply before it is generated.
func (e *Engine) RespondLater(sched schedule.Scheduler, at time.Time, req ChatRequest, deliver func(*core.Reply)) (cancel func()) {
	return sched.ScheduleAt(at, req.ConversationID, func() {
		ctx, cancelCtx := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancelCtx()
		deliver(e.Respond(ctx, req))
	})
}

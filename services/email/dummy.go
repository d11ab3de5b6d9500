package emailsvc

import (
	"sync"

	"github.com/jamesdoliver/minimusiker-sub007/core"
)

// dummyService renders and records messages synchronously; for tests.
type dummyService struct {
	mu       sync.Mutex
	messages []core.EmailMessage
}

var _ core.EmailService = (*dummyService)(nil)

func NewDummyService() *dummyService {
	return &dummyService{}
}

func (svc *dummyService) SendMessages(messages ...*core.EmailMessage) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	for _, msg := range messages {
		if err := msg.Render(); err != nil {
			continue
		}
		if msg.HasRecipients() && msg.HasContent() {
			svc.messages = append(svc.messages, *msg)
		}
	}
}

// Messages returns a copy of everything sent so far.
func (svc *dummyService) Messages() []core.EmailMessage {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	cp := make([]core.EmailMessage, len(svc.messages))
	copy(cp, svc.messages)
	return cp
}

// Reset clears the recorded messages.
func (svc *dummyService) Reset() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.messages = nil
}

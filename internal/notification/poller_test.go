package notification_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/satriadw/hrm-portal/internal/notification"
)

func TestNotification(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notification Suite")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

var _ = Describe("Poller", func() {
	It("fetches once immediately on start", func() {
		var calls int32
		p := notification.NewPoller(time.Hour, func(ctx context.Context) (int, error) {
			atomic.AddInt32(&calls, 1)
			return 5, nil
		}, testLogger())

		p.Start(context.Background())
		defer p.Stop()

		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(1)))
		Expect(p.Count()).To(Equal(5))
	})

	It("keeps fetching on the interval", func() {
		var calls int32
		p := notification.NewPoller(10*time.Millisecond, func(ctx context.Context) (int, error) {
			return int(atomic.AddInt32(&calls, 1)), nil
		}, testLogger())

		p.Start(context.Background())
		defer p.Stop()

		Eventually(func() int32 { return atomic.LoadInt32(&calls) }).Should(BeNumerically(">=", 3))
	})

	It("keeps the last good count across fetch failures", func() {
		var calls int32
		p := notification.NewPoller(10*time.Millisecond, func(ctx context.Context) (int, error) {
			if atomic.AddInt32(&calls, 1) == 1 {
				return 4, nil
			}
			return 0, errors.New("upstream down")
		}, testLogger())

		p.Start(context.Background())
		defer p.Stop()

		Eventually(func() int32 { return atomic.LoadInt32(&calls) }).Should(BeNumerically(">=", 2))
		Expect(p.Count()).To(Equal(4))
	})

	It("stops fetching after Stop", func() {
		var calls int32
		p := notification.NewPoller(5*time.Millisecond, func(ctx context.Context) (int, error) {
			return int(atomic.AddInt32(&calls, 1)), nil
		}, testLogger())

		p.Start(context.Background())
		p.Stop()

		settled := atomic.LoadInt32(&calls)
		Consistently(func() int32 { return atomic.LoadInt32(&calls) }, 50*time.Millisecond).Should(Equal(settled))
	})

	It("clamps optimistic decrements at zero", func() {
		p := notification.NewPoller(time.Hour, func(ctx context.Context) (int, error) {
			return 1, nil
		}, testLogger())

		p.SetCount(1)
		p.Add(-1)
		p.Add(-1)
		p.Add(-1)
		Expect(p.Count()).To(BeZero())
	})
})

var _ = Describe("Manager", func() {
	var manager *notification.Manager

	fetch := func(n int) notification.CountFetcher {
		return func(ctx context.Context) (int, error) { return n, nil }
	}

	BeforeEach(func() {
		manager = notification.NewManager(time.Hour, testLogger())
	})

	AfterEach(func() {
		manager.Shutdown()
	})

	It("starts one poller per session", func() {
		Expect(manager.Subscribe(context.Background(), "s1", fetch(3))).To(BeTrue())
		Expect(manager.Subscribe(context.Background(), "s1", fetch(3))).To(BeFalse())

		p, ok := manager.Get("s1")
		Expect(ok).To(BeTrue())
		Expect(p.Count()).To(Equal(3))
	})

	It("forgets a session on unsubscribe", func() {
		manager.Subscribe(context.Background(), "s1", fetch(3))
		manager.Unsubscribe("s1")

		_, ok := manager.Get("s1")
		Expect(ok).To(BeFalse())
	})

	It("tolerates unsubscribing a session that never subscribed", func() {
		Expect(func() { manager.Unsubscribe("ghost") }).NotTo(Panic())
	})
})

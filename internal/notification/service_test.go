package notification_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/satriadw/hrm-portal/internal/hrmapi"
	"github.com/satriadw/hrm-portal/internal/notification"
	"github.com/satriadw/hrm-portal/internal/session"
)

// MockAPI implements notification.API for testing
type MockAPI struct {
	count        int
	countErr     error
	markReadErr  error
	markAllErr   error
	markedRead   []int64
	markedAll    int
	countFetches int
}

func (m *MockAPI) ListNotifications(ctx context.Context, token string) ([]hrmapi.Notification, error) {
	return []hrmapi.Notification{{ID: 1, Title: "Leave request"}}, nil
}

func (m *MockAPI) UnreadNotificationCount(ctx context.Context, token string) (int, error) {
	m.countFetches++
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.count, nil
}

func (m *MockAPI) MarkNotificationRead(ctx context.Context, token string, id int64) error {
	if m.markReadErr != nil {
		return m.markReadErr
	}
	m.markedRead = append(m.markedRead, id)
	m.count--
	return nil
}

func (m *MockAPI) MarkAllNotificationsRead(ctx context.Context, token string) error {
	if m.markAllErr != nil {
		return m.markAllErr
	}
	m.markedAll++
	m.count = 0
	return nil
}

var _ = Describe("Notification Service", func() {
	var (
		api     *MockAPI
		service *notification.Service
		sess    *session.Session
	)

	BeforeEach(func() {
		api = &MockAPI{count: 3}
		service = notification.NewService(api, notification.NewManager(time.Hour, testLogger()), testLogger())
		sess = &session.Session{ID: "sess-1", UserID: 1, Role: session.RoleEmployee}
	})

	AfterEach(func() {
		service.Shutdown()
	})

	Describe("UnreadCount", func() {
		It("serves the cached count for subscribed sessions", func() {
			service.Subscribe(sess)
			fetchesAfterSubscribe := api.countFetches

			count, err := service.UnreadCount(context.Background(), sess)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(3))
			Expect(api.countFetches).To(Equal(fetchesAfterSubscribe))
		})

		It("falls back to a direct fetch for unsubscribed sessions", func() {
			count, err := service.UnreadCount(context.Background(), sess)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(3))
			Expect(api.countFetches).To(Equal(1))
		})
	})

	Describe("MarkRead", func() {
		It("decrements the badge before the backend confirms", func() {
			service.Subscribe(sess)

			Expect(service.MarkRead(context.Background(), sess, 1)).To(Succeed())
			count, _ := service.UnreadCount(context.Background(), sess)
			Expect(count).To(Equal(2))
			Expect(api.markedRead).To(ConsistOf(int64(1)))
		})

		It("reconciles the badge when the backend refuses", func() {
			service.Subscribe(sess)
			api.markReadErr = errors.New("boom")

			Expect(service.MarkRead(context.Background(), sess, 1)).NotTo(Succeed())

			// reconciliation refetched the true count
			count, _ := service.UnreadCount(context.Background(), sess)
			Expect(count).To(Equal(3))
		})
	})

	Describe("MarkAllRead", func() {
		It("zeroes the badge and is idempotent", func() {
			service.Subscribe(sess)

			Expect(service.MarkAllRead(context.Background(), sess)).To(Succeed())
			Expect(service.MarkAllRead(context.Background(), sess)).To(Succeed())

			count, _ := service.UnreadCount(context.Background(), sess)
			Expect(count).To(BeZero())
			Expect(api.markedAll).To(Equal(2))
		})
	})
})

var _ = Describe("ResolveLink", func() {
	note := func(title, message, link string) hrmapi.Notification {
		return hrmapi.Notification{Title: title, Message: message, Link: link}
	}

	It("prefers the explicit link", func() {
		n := note("Leave request", "something", "/custom/path")
		Expect(notification.ResolveLink(n)).To(Equal("/custom/path"))
	})

	It("routes leave keywords to the leave screen", func() {
		n := note("New Leave Request", "Jane requested leave", "")
		Expect(notification.ResolveLink(n)).To(Equal("/admin/leave-requests"))
	})

	It("routes registration keywords to the users screen", func() {
		n := note("New registration", "A user signed up", "")
		Expect(notification.ResolveLink(n)).To(Equal("/admin/users"))
	})

	It("checks rules in priority order", func() {
		// mentions both leave and payroll; leave wins
		n := note("Leave during payroll week", "", "")
		Expect(notification.ResolveLink(n)).To(Equal("/admin/leave-requests"))
	})

	It("matches case-insensitively across title and message", func() {
		n := note("Heads up", "PAYROLL for May is ready", "")
		Expect(notification.ResolveLink(n)).To(Equal("/admin/payroll"))
	})

	It("resolves to nothing when no rule matches", func() {
		n := note("System maintenance", "Scheduled downtime tonight", "")
		Expect(notification.ResolveLink(n)).To(Equal(""))
	})
})

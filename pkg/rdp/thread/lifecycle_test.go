package thread_test

import (
	"context"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"github.com/solo-io/remdbg/pkg/rdp"
	"github.com/solo-io/remdbg/pkg/rdp/testutils"
	"github.com/solo-io/remdbg/pkg/rdp/thread"
)

func pausedPacket(from, reason string) rdp.Packet {
	return rdp.Packet{
		"from": from,
		"type": "paused",
		"why":  map[string]interface{}{"type": reason},
	}
}

var _ = Describe("Lifecycle operations", func() {
	var (
		conn   *testutils.FakeConn
		client *thread.Client
	)

	BeforeEach(func() {
		conn = testutils.NewFakeConn()
		client = thread.NewClient(conn, "thread1")
	})

	attachAndPause := func() {
		client.Attach()
		client.HandlePacket(pausedPacket("thread1", "attached"))
	}

	Describe("attach", func() {
		It("sends a single attach request", func() {
			client.Attach()
			Expect(conn.SentTypes()).To(Equal([]string{"attach"}))
		})

		It("is idempotent while in flight or attached", func() {
			first := client.Attach()
			second := client.Attach()
			Expect(second).To(BeIdenticalTo(first))
			Expect(conn.Sent).To(HaveLen(1))

			client.HandlePacket(pausedPacket("thread1", "attached"))
			third := client.Attach()
			Expect(third).To(BeIdenticalTo(first))
			Expect(conn.Sent).To(HaveLen(1))
		})

		It("settles on the attached pause", func() {
			p := client.Attach()
			Expect(p.Settled()).To(BeFalse())
			client.HandlePacket(pausedPacket("thread1", "attached"))
			Expect(p.Settled()).To(BeTrue())
			_, err := p.Await(context.Background())
			Expect(err).NotTo(HaveOccurred())
		})

		It("seeds interrupt as satisfied, so interrupt sends nothing", func() {
			attachAndPause()
			p := client.Interrupt()
			Expect(p.Settled()).To(BeTrue())
			Expect(conn.SentTypes()).To(Equal([]string{"attach"}))
		})

		It("can be re-issued after a completed detach", func() {
			attachAndPause()
			client.Detach()
			client.HandlePacket(rdp.Packet{"from": "thread1", "type": "detached"})
			client.Attach()
			Expect(conn.SentTypes()).To(Equal([]string{"attach", "detach", "attach"}))
		})
	})

	Describe("resume and interrupt", func() {
		BeforeEach(attachAndPause)

		It("settles resume on the resumed notification", func() {
			p := client.Resume(thread.ExceptionsNone, thread.StepNone)
			Expect(p.Settled()).To(BeFalse())
			client.HandlePacket(rdp.Packet{"from": "thread1", "type": "resumed"})
			Expect(p.Settled()).To(BeTrue())
		})

		It("returns the cached resume handle while resume is outstanding", func() {
			first := client.Resume(thread.ExceptionsNone, thread.StepNone)
			second := client.Resume(thread.ExceptionsNone, thread.StepNone)
			Expect(second).To(BeIdenticalTo(first))
			Expect(conn.SentTypes()).To(Equal([]string{"attach", "resume"}))
		})

		It("invalidates the cached interrupt on resume, so the next interrupt hits the wire", func() {
			// interrupt is seeded by attach; resume must clear it
			client.Resume(thread.ExceptionsNone, thread.StepNone)
			client.HandlePacket(rdp.Packet{"from": "thread1", "type": "resumed"})

			p := client.Interrupt()
			Expect(p.Settled()).To(BeFalse())
			Expect(conn.SentTypes()).To(Equal([]string{"attach", "resume", "interrupt"}))

			client.HandlePacket(pausedPacket("thread1", "interrupted"))
			Expect(p.Settled()).To(BeTrue())
		})

		It("invalidates the cached resume on interrupt, so the next resume hits the wire", func() {
			client.Resume(thread.ExceptionsNone, thread.StepNone)
			client.HandlePacket(rdp.Packet{"from": "thread1", "type": "resumed"})

			client.Interrupt()
			client.HandlePacket(pausedPacket("thread1", "interrupted"))

			client.Resume(thread.ExceptionsNone, thread.StepNone)
			Expect(conn.SentTypes()).To(Equal([]string{"attach", "resume", "interrupt", "resume"}))
		})
	})

	Describe("resume request shape", func() {
		BeforeEach(attachAndPause)

		It("maps ExceptionsAll to pauseOnExceptions only", func() {
			client.Resume(thread.ExceptionsAll, thread.StepNone)
			req := conn.LastSent()
			Expect(req["pauseOnExceptions"]).To(Equal(true))
			Expect(req).NotTo(HaveKey("ignoreCaughtExceptions"))
		})

		It("maps ExceptionsUncaught to both flags", func() {
			client.Resume(thread.ExceptionsUncaught, thread.StepNone)
			req := conn.LastSent()
			Expect(req["pauseOnExceptions"]).To(Equal(true))
			Expect(req["ignoreCaughtExceptions"]).To(Equal(true))
		})

		It("maps ExceptionsNone to neither flag", func() {
			client.Resume(thread.ExceptionsNone, thread.StepNone)
			req := conn.LastSent()
			Expect(req).NotTo(HaveKey("pauseOnExceptions"))
			Expect(req).NotTo(HaveKey("ignoreCaughtExceptions"))
		})

		It("omits the resume limit when not stepping", func() {
			client.Resume(thread.ExceptionsNone, thread.StepNone)
			Expect(conn.LastSent()).NotTo(HaveKey("resumeLimit"))
		})

		It("maps step kinds to resume limit descriptors", func() {
			client.Resume(thread.ExceptionsNone, thread.StepOver)
			Expect(conn.LastSent()["resumeLimit"]).To(Equal(map[string]interface{}{"type": "next"}))

			client.HandlePacket(pausedPacket("thread1", "resumeLimit"))
			client.Resume(thread.ExceptionsNone, thread.StepIn)
			Expect(conn.LastSent()["resumeLimit"]).To(Equal(map[string]interface{}{"type": "step"}))

			client.HandlePacket(pausedPacket("thread1", "resumeLimit"))
			client.Resume(thread.ExceptionsNone, thread.StepOut)
			Expect(conn.LastSent()["resumeLimit"]).To(Equal(map[string]interface{}{"type": "finish"}))
		})
	})

	Describe("detach", func() {
		BeforeEach(attachAndPause)

		It("is idempotent while in flight", func() {
			first := client.Detach()
			second := client.Detach()
			Expect(second).To(BeIdenticalTo(first))
			Expect(conn.SentTypes()).To(Equal([]string{"attach", "detach"}))
		})

		It("settles on the detached notification", func() {
			p := client.Detach()
			Expect(p.Settled()).To(BeFalse())
			client.HandlePacket(rdp.Packet{"from": "thread1", "type": "detached"})
			Expect(p.Settled()).To(BeTrue())
		})
	})

	Describe("send failures", func() {
		It("returns a failed handle and leaves the slot free", func() {
			conn.SendErr = errors.New("connection closed")
			p := client.Attach()
			_, err := p.Await(context.Background())
			Expect(err).To(HaveOccurred())

			conn.SendErr = nil
			client.Attach()
			Expect(conn.SentTypes()).To(Equal([]string{"attach"}))
		})
	})
})

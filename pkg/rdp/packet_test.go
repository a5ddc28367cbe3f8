package rdp_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/solo-io/remdbg/pkg/rdp"
)

var _ = Describe("Packet", func() {
	decode := func(raw string) rdp.Packet {
		var p rdp.Packet
		ExpectWithOffset(1, json.Unmarshal([]byte(raw), &p)).To(Succeed())
		return p
	}

	It("reads the discriminant fields without panicking on absence", func() {
		p := decode(`{"from":"thread1","type":"paused","why":{"type":"breakpoint"}}`)
		Expect(p.From()).To(Equal("thread1"))
		Expect(p.Type()).To(Equal("paused"))
		Expect(p.WhyType()).To(Equal("breakpoint"))
		Expect(p.ErrorName()).To(BeEmpty())

		empty := rdp.Packet{}
		Expect(empty.From()).To(BeEmpty())
		Expect(empty.Type()).To(BeEmpty())
		Expect(empty.WhyType()).To(BeEmpty())
		Expect(empty.IsBareAck()).To(BeFalse())
	})

	It("treats only a lone from field as a bare ack", func() {
		Expect(decode(`{"from":"thread1"}`).IsBareAck()).To(BeTrue())
		Expect(decode(`{"from":"thread1","type":"exited"}`).IsBareAck()).To(BeFalse())
		Expect(decode(`{"type":"exited"}`).IsBareAck()).To(BeFalse())
	})

	It("digs the evaluation result out of frameFinished", func() {
		p := decode(`{"from":"t","type":"paused","why":{"type":"clientEvaluated","frameFinished":{"return":"ok"}}}`)
		Expect(p.EvalResult()).To(Equal("ok"))
	})

	It("falls back to the why value when frameFinished is missing", func() {
		p := decode(`{"from":"t","type":"paused","why":{"type":"clientEvaluated"}}`)
		Expect(p.EvalResult()).To(Equal(map[string]interface{}{"type": "clientEvaluated"}))
	})

	It("decodes sources payloads into descriptors", func() {
		p := decode(`{"from":"t","sources":[{"actor":"source1","url":"file:///a.js"},{"actor":"source2"}]}`)
		sources, err := rdp.DecodeSources(p["sources"])
		Expect(err).NotTo(HaveOccurred())
		Expect(sources).To(Equal([]rdp.Source{
			{Actor: "source1", URL: "file:///a.js"},
			{Actor: "source2"},
		}))
	})

	It("decodes frames payloads including locations", func() {
		p := decode(`{"from":"t","frames":[{"actor":"frame1","type":"call","depth":0,"where":{"url":"file:///a.js","line":12,"column":3}}]}`)
		frames, err := rdp.DecodeFrames(p["frames"])
		Expect(err).NotTo(HaveOccurred())
		Expect(frames).To(HaveLen(1))
		Expect(frames[0].Actor).To(Equal("frame1"))
		Expect(frames[0].Where).To(Equal(rdp.Location{URL: "file:///a.js", Line: 12, Column: 3}))
	})

	It("rejects structurally wrong payloads", func() {
		_, err := rdp.DecodeSources("not a list")
		Expect(err).To(HaveOccurred())
	})

	It("builds requests with the addressing skeleton", func() {
		req := rdp.NewRequest("thread1", "interrupt")
		Expect(req.To()).To(Equal("thread1"))
		Expect(req.Type()).To(Equal("interrupt"))
	})
})

package rdp_test

import (
	"fmt"
	"sync"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/solo-io/remdbg/pkg/rdp"
)

type stubActor struct {
	name string
}

func (s *stubActor) Name() string              { return s.name }
func (s *stubActor) HandlePacket(p rdp.Packet) {}

var _ = Describe("Registry", func() {
	var registry *rdp.Registry

	BeforeEach(func() {
		registry = rdp.NewRegistry()
	})

	It("registers and looks up actors by name", func() {
		a := &stubActor{name: "thread1"}
		registry.Register(a)

		got, ok := registry.Get("thread1")
		Expect(ok).To(BeTrue())
		Expect(got).To(BeIdenticalTo(a))

		_, ok = registry.Get("thread2")
		Expect(ok).To(BeFalse())
	})

	It("creates through GetOrCreate exactly once per name", func() {
		created := 0
		factory := func(name string) rdp.Actor {
			created++
			return &stubActor{name: name}
		}

		first := registry.GetOrCreate("source1", factory)
		second := registry.GetOrCreate("source1", factory)

		Expect(created).To(Equal(1))
		Expect(second).To(BeIdenticalTo(first))
	})

	It("keeps creation idempotent under concurrent notifications", func() {
		var created sync.Map
		factory := func(name string) rdp.Actor {
			if _, loaded := created.LoadOrStore(name, true); loaded {
				Fail(fmt.Sprintf("factory ran twice for %v", name))
			}
			return &stubActor{name: name}
		}

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					registry.GetOrCreate(fmt.Sprintf("source%v", j), factory)
				}
			}()
		}
		wg.Wait()
		Expect(registry.Names()).To(HaveLen(100))
	})

	It("forgets unregistered actors", func() {
		registry.Register(&stubActor{name: "thread1"})
		registry.Unregister("thread1")
		_, ok := registry.Get("thread1")
		Expect(ok).To(BeFalse())
	})
})

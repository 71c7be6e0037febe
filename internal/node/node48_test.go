package node

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNode48(t *testing.T) {
	Convey("Given a Node48", t, func() {
		n := NewNode48(nil)

		Convey("It reports under-full below 12 children", func() {
			So(n.IsUnderFull(), ShouldBeTrue)

			for i := 0; i < 12; i++ {
				n.InsertChild(byte(i), LeafTag(NewLeaf([]byte{byte(i)}, uint64(i))))
			}

			So(n.IsUnderFull(), ShouldBeFalse)
		})

		Convey("InsertChild reuses a slot freed by RemoveChild", func() {
			Convey("filling every slot, freeing one, then adding past the old count", func() {
				for i := 0; i < 48; i++ {
					n.InsertChild(byte(i), LeafTag(NewLeaf([]byte{byte(i)}, uint64(i))))
				}
				So(n.IsFull(), ShouldBeTrue)

				// Free the slot that byte 5 occupied, rather than the last one
				// inserted, so a scan that (wrongly) started at Count() would
				// miss it.
				n.RemoveChild(5)
				So(n.Count(), ShouldEqual, 47)
				So(n.IsFull(), ShouldBeFalse)

				n.InsertChild(200, LeafTag(NewLeaf([]byte{200}, 200)))
				So(n.Count(), ShouldEqual, 48)
				So(n.FindChild(200), ShouldNotBeNil)
				So(n.FindChild(5), ShouldBeNil)
			})
		})

		Convey("A byte value of 0 is a valid key, distinct from an empty slot", func() {
			leaf := NewLeaf([]byte{0}, 1)
			n.InsertChild(0, LeafTag(leaf))

			slot := n.FindChild(0)
			So(slot, ShouldNotBeNil)
			So(slot.Load(), ShouldEqual, LeafTag(leaf))
		})

		Convey("Range visits occupied bytes in ascending order", func() {
			n.InsertChild(200, LeafTag(NewLeaf([]byte{200}, 1)))
			n.InsertChild(10, LeafTag(NewLeaf([]byte{10}, 2)))
			n.InsertChild(100, LeafTag(NewLeaf([]byte{100}, 3)))

			var seen []byte
			n.Range(0, 255, func(b byte, _ *Child) bool {
				seen = append(seen, b)
				return true
			})

			So(seen, ShouldResemble, []byte{10, 100, 200})
		})
	})
}

package node

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNode256(t *testing.T) {
	Convey("Given a Node256", t, func() {
		n := NewNode256(nil)

		Convey("It reports full at 256 children and shrinks under 37", func() {
			So(n.IsUnderFull(), ShouldBeTrue)

			for i := 0; i < 256; i++ {
				n.InsertChild(byte(i), LeafTag(NewLeaf([]byte{byte(i)}, uint64(i))))
			}

			So(n.IsFull(), ShouldBeTrue)
			So(n.Count(), ShouldEqual, 256)

			for i := 0; i < 220; i++ {
				n.RemoveChild(byte(i))
			}

			So(n.IsUnderFull(), ShouldBeTrue)
		})

		Convey("Direct array access needs no ordering pass for Range", func() {
			n.InsertChild(200, LeafTag(NewLeaf([]byte{200}, 1)))
			n.InsertChild(10, LeafTag(NewLeaf([]byte{10}, 2)))

			var seen []byte
			n.Range(0, 255, func(b byte, _ *Child) bool {
				seen = append(seen, b)
				return true
			})

			So(seen, ShouldResemble, []byte{10, 200})
		})

		Convey("Re-inserting at an occupied byte does not double-count", func() {
			n.InsertChild(1, LeafTag(NewLeaf([]byte{1}, 1)))
			n.InsertChild(1, LeafTag(NewLeaf([]byte{1}, 2)))

			So(n.Count(), ShouldEqual, 1)
			So(n.FindChild(1).Load().kind, ShouldEqual, KindLeaf)
		})
	})
}

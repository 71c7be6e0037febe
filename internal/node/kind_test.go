package node

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTagReinterpretation(t *testing.T) {
	Convey("Given tags for a leaf and each node variant", t, func() {
		leaf := NewLeaf([]byte("k"), 1)
		n4 := NewNode4(nil)
		n16 := NewNode16(nil)
		n48 := NewNode48(nil)
		n256 := NewNode256(nil)

		Convey("IsLeaf distinguishes leaves from nodes", func() {
			So(IsLeaf(LeafTag(leaf)), ShouldBeTrue)
			So(IsLeaf(HeaderTag(n4.Header())), ShouldBeFalse)
			So(IsLeaf(nil), ShouldBeFalse)
		})

		Convey("AsLeaf only succeeds for a leaf tag", func() {
			So(AsLeaf(LeafTag(leaf)), ShouldEqual, leaf)
			So(AsLeaf(HeaderTag(n4.Header())), ShouldBeNil)
			So(AsLeaf(nil), ShouldBeNil)
		})

		Convey("AsHeader only succeeds for a node tag", func() {
			So(AsHeader(HeaderTag(n4.Header())), ShouldEqual, n4.Header())
			So(AsHeader(LeafTag(leaf)), ShouldBeNil)
		})

		Convey("AsInner recovers the exact concrete variant", func() {
			So(AsInner(HeaderTag(n4.Header())), ShouldEqual, n4)
			So(AsInner(HeaderTag(n16.Header())), ShouldEqual, n16)
			So(AsInner(HeaderTag(n48.Header())), ShouldEqual, n48)
			So(AsInner(HeaderTag(n256.Header())), ShouldEqual, n256)
		})

		Convey("AsInner panics on a leaf tag", func() {
			So(func() { AsInner(LeafTag(leaf)) }, ShouldPanic)
		})

		Convey("Kind.String names every variant", func() {
			So(KindLeaf.String(), ShouldEqual, "leaf")
			So(KindNode4.String(), ShouldEqual, "node4")
			So(KindNode16.String(), ShouldEqual, "node16")
			So(KindNode48.String(), ShouldEqual, "node48")
			So(KindNode256.String(), ShouldEqual, "node256")
			So(Kind(0).String(), ShouldEqual, "unknown")
		})
	})
}

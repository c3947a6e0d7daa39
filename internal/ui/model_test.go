package ui

import (
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestModel(t *testing.T) {
	Convey("Given a notifier", t, func() {
		m := &Model{}
		So(m.View("content"), ShouldEqual, "content")

		Convey("A string message is shown on the last line", func() {
			So(m.Update(Notify("saved")()), ShouldNotBeNil)
			So(m.Notification(), ShouldEqual, "saved")

			view := m.View("title\nbody")
			lines := strings.Split(view, "\n")
			So(lines, ShouldHaveLength, 2)
			So(lines[1], ShouldContainSubstring, "saved")

			Convey("A fresh notification survives an early clear", func() {
				m.Update(ClearNotificationMsg{})
				So(m.Notification(), ShouldEqual, "saved")
			})

			Convey("An expired notification is cleared", func() {
				m.notifiedAt = time.Now().Add(-Lifetime)
				m.Update(ClearNotificationMsg{})
				So(m.Notification(), ShouldBeEmpty)
			})
		})
	})
}

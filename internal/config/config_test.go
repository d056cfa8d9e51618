package config_test

import (
	"testing"

	"github.com/okian/scoreboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":4000")
			convey.So(cfg.EventsDir, convey.ShouldEqual, "ctfs")
			convey.So(cfg.TeamsFile, convey.ShouldEqual, "teams/teams.yaml")
			convey.So(cfg.SrcDir, convey.ShouldEqual, "src")
			convey.So(cfg.DistDir, convey.ShouldEqual, "dist")
			convey.So(cfg.Watch, convey.ShouldBeTrue)
			convey.So(cfg.WatchDebounceMS, convey.ShouldEqual, 200)
			convey.So(cfg.NameLintDistance, convey.ShouldEqual, 1)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

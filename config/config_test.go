package config

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vlog-app/vlog/filesystem"
	"github.com/vlog-app/vlog/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given an empty config directory", t, func() {
		So(Setup(), ShouldBeNil)

		Convey("Every registered default should be readable", func() {
			for name := range Default {
				So(viper.IsSet(name), ShouldBeTrue)
			}
		})

		Convey("The sampling period should default to one second", func() {
			So(viper.GetInt(key.PlayerSampleInterval), ShouldEqual, 1000)
		})

		Convey("The preset playlist should not be empty", func() {
			So(viper.GetStringSlice(key.PlaylistPresets), ShouldNotBeEmpty)
		})
	})

	Convey("EnvKeyReplacer should convert dots to underscores", t, func() {
		So(EnvKeyReplacer.Replace("player.sample_interval"), ShouldEqual, "player_sample_interval")
	})
}

func TestField(t *testing.T) {
	Convey("Given the sample interval field", t, func() {
		f := Default[key.PlayerSampleInterval]

		Convey("Env should carry the application prefix", func() {
			So(f.Env(), ShouldEqual, "VLOG_PLAYER_SAMPLE_INTERVAL")
		})

		Convey("MarshalJSON should report the type", func() {
			data, err := f.MarshalJSON()
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"type":"int"`)
		})
	})
}

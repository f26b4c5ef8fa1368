package log

import (
	"fmt"
	"testing"
	"time"
)

var (
	now    = time.Now().Unix()
	logErr = fmt.Errorf("error message")
)

// Fatal and Fatalf are not tested as they exit the process
func TestLogger(t *testing.T) {
	SetLogger(6, false, true)

	WithFields("timestamp", now, "err", logErr).Tracef("test WithFields Tracef at %v", now)
	WithFields("timestamp", now, "err", logErr).Infof("test WithFields Infof at %v", now)

	Trace("test Trace", "timestamp", now, "err", logErr)
	Tracef("test Tracef, timestamp=%v err=%v", now, logErr)

	Debug("test Debug", "timestamp", now, "err", logErr)
	Debugf("test Debugf, timestamp=%v err=%v", now, logErr)

	Info("test Info", "timestamp", now, "err", logErr)
	Infof("test Infof, timestamp=%v err=%v", now, logErr)

	Printf("test Printf, timestamp=%v err=%v", now, logErr)
	Println("test Println", "timestamp", now, "err", logErr)

	Warn("test Warn", "timestamp", now, "err", logErr)
	Warnf("test Warnf, timestamp=%v err=%v", now, logErr)

	Error("test Error", "timestamp", now, "err", logErr)
	Errorf("test Errorf, timestamp=%v err=%v", now, logErr)
}

func TestWithFieldsOddArgs(t *testing.T) {
	SetLogger(4, true, false)
	entry := WithFields("key1", 1, "dangling")
	if _, exist := entry.Data["dangling"]; exist {
		t.Errorf("dangling key should be ignored")
	}
	if entry.Data["key1"] != 1 {
		t.Errorf("wrong field value: %v", entry.Data["key1"])
	}
}

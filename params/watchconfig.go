package params

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/polkabridge/substrate-client/log"
)

// WatchConfig reload the config file when it is rewritten on disk.
// Reload failures keep the previous config and are only logged.
// The returned stop function releases the watcher.
func WatchConfig(configFile string) (stop func(), err error) {
	watch, err := fsnotify.NewWatcher()
	if err != nil {
		log.Error("fsnotify.NewWatcher failed", "err", err)
		return nil, err
	}

	// watch the directory so editors replacing the file are still observed
	err = watch.Add(filepath.Dir(configFile))
	if err != nil {
		log.Error("watch.Add config dir failed", "err", err)
		_ = watch.Close()
		return nil, err
	}

	done := make(chan struct{})
	go startWatcher(watch, configFile, done)
	return func() {
		close(done)
	}, nil
}

func startWatcher(watch *fsnotify.Watcher, configFile string, done <-chan struct{}) {
	log.Info("start config file watch", "configFile", configFile)
	defer func() {
		log.Info("stop config file watch", "configFile", configFile)
		_ = watch.Close()
	}()

	ops := []fsnotify.Op{
		fsnotify.Create,
		fsnotify.Write,
	}

	for {
		select {
		case <-done:
			return
		case ev, ok := <-watch.Events:
			if !ok {
				continue
			}
			if filepath.Clean(ev.Name) != filepath.Clean(configFile) {
				continue
			}
			log.Trace("config watch event", "event", ev)
			for _, op := range ops {
				if ev.Op&op == op {
					loadConfigFile(configFile, false)
					break
				}
			}
		case werr, ok := <-watch.Errors:
			if !ok {
				continue
			}
			log.Warn("config watch error", "err", werr)
		}
	}
}

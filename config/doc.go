// Package config builds loggers from declarative YAML or JSON files.
//
// A config names the level, optional default fields, and a list of
// handlers. File handlers expose the full rotation surface of the
// sink package:
//
//	level: info
//	caller: false
//	fields:
//	  service: api
//	handlers:
//	  - type: console
//	    format: text
//	  - type: file
//	    format: json
//	    path: /var/log/api/app.log
//	    max_size: 10485760
//	    max_backups: 5
//	    async: true
//
// Load reads, validates and builds in one call:
//
//	log, err := config.Load("/etc/api/logging.yaml")
//
// Watch rebuilds the logger whenever the file changes and hands the
// new instance to a callback, which swaps it in and closes the old
// one:
//
//	w, err := config.Watch(path, func(l *logger.Logger, err error) {
//	    if err != nil {
//	        return
//	    }
//	    old := logger.Default()
//	    logger.SetDefault(l)
//	    old.Close()
//	})
//	w.StartAsync()
//	defer w.Stop()
package config

// Package config loads the lesson server configuration.
//
// Configuration lives in lesson.yaml (or lesson.yml, or lesson.json) and
// every field has a default, so the file is optional:
//
//	server:
//	  address: ":8080"
//	session:
//	  backend: redis          # memory, redis or bolt
//	  ttl: 24h
//	  redisURL: redis://localhost:6379/0
//	metrics:
//	  enabled: true
//	publish:
//	  bucket: my-lessons
//	  region: eu-west-1
//	log:
//	  level: info
//	  format: json
//
// LESSON_* environment variables override the file, for example
// LESSON_SESSION_BACKEND=bolt or LESSON_METRICS_ENABLED=true.
package config

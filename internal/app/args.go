package app

var args struct {
	Files         []string `arg:"positional,required" help:"PDF invoice files to process"`
	ConfigFile    string   `arg:"-c,--config-file" help:"Path to config file" default:"config/config.yaml"`
	CacheDBFile   string   `arg:"-d,--cache-db-file" help:"Path to database file for result caching" default:"cache.db"`
	EventLogFile  string   `arg:"-o,--event-log-file" help:"Path to event log file" default:"event_log.json"`
	LogLevel      string   `arg:"-l,--log-level" help:"Log level (debug, info, error, fatal)" default:"info"`
	Model         string   `arg:"-m,--model,env:OPENAI_MODEL" help:"Chat model used for extraction" default:"gpt-4o-mini"`
	CacheDuration int      `arg:"--cache-duration" help:"Result cache duration in hours (0 disables caching, -1 caches indefinitely)" default:"24"`
	Endpoint      string   `arg:"--endpoint,env:VISION_ENDPOINT" help:"Document intelligence endpoint"`
	VisionKey     string   `arg:"--vision-key,env:VISION_KEY" help:"Document intelligence API key"`
	Concurrency   int      `arg:"--concurrency" help:"Number of documents processed in parallel" default:"4"`
}

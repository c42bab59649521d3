package flag

import "flag"

var (
	// ServiceName is reported in every log line.
	ServiceName = flag.String("service", "article_importer", "service name used in logging")
	// ImportSource restricts a run to the named source, empty means all.
	ImportSource = flag.String("source", "", "only import the source with this name")
)

func ParseFlags() {
	flag.Parse()
}

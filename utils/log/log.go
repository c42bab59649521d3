package log

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/zemki/molonews-backend/utils/flag"
)

// global accessible logger
var (
	LogV2 *Log
)

// This init function is only for testing cases, where the entry point is not
// main function. Unit test will fail with nil pointer dereference if we don't
// init here.
func init() {
	initLogger()
}

type Log struct {
	*logrus.Entry
}

func (l *Log) Infof(params ...interface{}) {
	l.Info(joinParams(params))
}

func (l *Log) Debugf(params ...interface{}) {
	l.Debug(joinParams(params))
}

func (l *Log) Errorf(params ...interface{}) {
	l.Error(joinParams(params))
}

func joinParams(params []interface{}) string {
	strs := make([]string, len(params))

	for i, param := range params {
		strs[i] = fmt.Sprint(param)
	}

	return strings.Join(strs, ", ")
}

func initLogger() {
	base := logrus.New()
	base.SetOutput(os.Stderr)

	env := os.Getenv("MOLONEWS_ENV")
	if len(env) == 0 {
		env = "unknown"
	}

	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	base.SetLevel(logrus.InfoLevel)
	if env != "prod" {
		base.SetLevel(logrus.DebugLevel)
	}

	LogV2 = &Log{base.WithFields(logrus.Fields{
		"env": env,
		"app": strings.ReplaceAll(*flag.ServiceName, "_", "-"),
	})}
}

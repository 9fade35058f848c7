/*
 * log.go, part of trajan.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package log sets up the zap logger used by the trajan command.
package log

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var log *zap.SugaredLogger
var baseLogger *zap.Logger

//Init initializes the package-level logger. If file is not empty, the log is
//also written there, in JSON, with rotation.
func Init(debug bool, file string) error {
	var zapLogger *zap.Logger
	var err error
	if file == "" {
		if debug {
			zapLogger, err = zap.NewDevelopment()
		} else {
			zapLogger, err = zap.NewProduction()
		}
		if err != nil {
			return fmt.Errorf("can't initialize zap logger: %v", err)
		}
	} else {
		zapLogger = zap.New(fileCore(debug, file), zap.AddCaller())
	}
	baseLogger = zapLogger
	log = zapLogger.Sugar()
	return nil
}

//fileCore returns a core that writes to the terminal and to the rotating file.
func fileCore(debug bool, file string) zapcore.Core {
	level := zapcore.InfoLevel
	consoleConfig := zap.NewProductionEncoderConfig()
	if debug {
		level = zapcore.DebugLevel
		consoleConfig = zap.NewDevelopmentEncoderConfig()
	}
	rotating := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    50, //MB
		MaxBackups: 3,
		Compress:   true,
	}
	fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.Lock(os.Stderr), level),
		zapcore.NewCore(fileEncoder, zapcore.AddSync(rotating), level),
	)
}

//Get returns the sugared logger instance. If Init was not called,
//a production logger is created.
func Get() *zap.SugaredLogger {
	if log == nil {
		baseLogger, _ = zap.NewProduction()
		log = baseLogger.Sugar()
	}
	return log
}

//Sync flushes any buffered log entries
func Sync() {
	if log != nil {
		log.Sync()
	}
}

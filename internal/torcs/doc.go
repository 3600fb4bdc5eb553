// Package torcs читает артефакты внешнего симулятора гонок.
//
// Включает:
//   - params.go    — общее дерево params-XML (секции, attstr, attnum)
//   - config.go    — слоты гонщиков из конфигурации заезда
//   - results.go   — финишный порядок из протокола результатов
//   - artifacts.go — расположение и поиск свежего протокола
//
// Пакет знает формат артефактов, но не управляет процессами:
// запуск симулятора и участников — забота пакета race.
package torcs

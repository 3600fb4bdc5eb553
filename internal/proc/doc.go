// Package proc запускает и останавливает внешние процессы заезда.
//
// Структура:
//   - runner.go   — Runner: запуск процесса по спецификации
//   - process.go  — Process: живость, потомки, сигналы, ожидание
//   - teardown.go — эскалирующая остановка группы процессов
//
// Пакет не знает доменных типов турнира: race.Session передаёт сюда
// готовые спецификации запуска и получает ручки процессов обратно.
// Живость и потомки опрашиваются мгновенно, без блокировок;
// единственный блокирующий вызов — Wait.
package proc

// Package config загружает конфигурацию турнира из YAML.
//
// Конфигурация типизирована по секциям: simulator, timing, rating,
// store, queue, loop, defaults, competitors, hooks. Слияние файла
// с умолчаниями выполняется на один уровень: отсутствующая секция
// берётся из умолчаний целиком, присутствующая замещает её целиком.
// Слияния отдельных полей внутри секции нет.
//
// Шаблоны команд из умолчаний всегда копируются при раздаче,
// у каждого участника собственный срез.
package config

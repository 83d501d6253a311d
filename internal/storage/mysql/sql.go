package mysql

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const findFlightsSQL = `
SELECT flight_id, airline, from_city, to_city, departure_time, arrival_time, price
FROM flights
WHERE LOWER(from_city) = LOWER(?)
  AND LOWER(to_city) = LOWER(?)
ORDER BY price ASC
LIMIT ?`

// Price ceiling is optional; the repo appends the clause when maxPrice > 0.
const findHotelsSQL = `
SELECT hotel_id, name, city, stars, price_per_night, amenities
FROM hotels
WHERE LOWER(city) = LOWER(?)
  AND stars >= ?`

const findHotelsOrderSQL = `
ORDER BY stars DESC, price_per_night ASC
LIMIT ?`

const findPlacesSQL = `
SELECT place_id, name, city, type, rating
FROM places
WHERE LOWER(city) = LOWER(?)
  AND rating >= ?
ORDER BY rating DESC
LIMIT ?`

const routeCountsSQL = `
SELECT from_city, to_city, COUNT(*) AS flight_count
FROM flights
GROUP BY from_city, to_city
ORDER BY from_city, to_city`

// -----------------------------------------------------------------------------
// WRITE QUERIES
// -----------------------------------------------------------------------------

const upsertFlightSQL = `
INSERT INTO flights
  (flight_id, airline, from_city, to_city, departure_time, arrival_time, price)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  airline        = VALUES(airline),
  from_city      = VALUES(from_city),
  to_city        = VALUES(to_city),
  departure_time = VALUES(departure_time),
  arrival_time   = VALUES(arrival_time),
  price          = VALUES(price)`

const upsertHotelSQL = `
INSERT INTO hotels
  (hotel_id, name, city, stars, price_per_night, amenities)
VALUES
  (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name            = VALUES(name),
  city            = VALUES(city),
  stars           = VALUES(stars),
  price_per_night = VALUES(price_per_night),
  amenities       = VALUES(amenities)`

const upsertPlaceSQL = `
INSERT INTO places
  (place_id, name, city, type, rating)
VALUES
  (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name   = VALUES(name),
  city   = VALUES(city),
  type   = VALUES(type),
  rating = VALUES(rating)`

const insertTripSQL = `
INSERT INTO trip_history
  (user_id, source_city, destination_city, start_date, end_date,
   duration_days, total_budget, itinerary_json, agent_response)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)`
